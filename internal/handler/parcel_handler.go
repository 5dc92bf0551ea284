package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/models"
	"courier/internal/repository"
	"courier/internal/service"
)

type ParcelHandler struct {
	parcelRepo *repository.ParcelRepository
	userRepo   *repository.UserRepository
	notifSvc   *service.NotificationService
	log        *zap.Logger
}

func NewParcelHandler(parcelRepo *repository.ParcelRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService, log *zap.Logger) *ParcelHandler {
	return &ParcelHandler{parcelRepo: parcelRepo, userRepo: userRepo, notifSvc: notifSvc, log: log}
}

type BookParcelRequest struct {
	ReceiverName    string  `json:"receiverName" binding:"required,max=128"`
	ReceiverPhone   string  `json:"receiverPhone" binding:"required,max=32"`
	PickupAddress   string  `json:"pickupAddress" binding:"required,max=512"`
	PickupLat       float64 `json:"pickupLat"`
	PickupLng       float64 `json:"pickupLng"`
	DeliveryAddress string  `json:"deliveryAddress" binding:"required,max=512"`
	DeliveryLat     float64 `json:"deliveryLat"`
	DeliveryLng     float64 `json:"deliveryLng"`
	ParcelType      string  `json:"parcelType" binding:"required,max=50"`
	WeightKg        float64 `json:"weightKg" binding:"required,gt=0"`
	PaymentMethod   string  `json:"paymentMethod" binding:"required,oneof=prepaid cod"`
	CODAmount       float64 `json:"codAmount"`
}

func newTrackingNumber() string {
	return "CR-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

func (h *ParcelHandler) Book(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req BookParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.PaymentMethod == domain.PaymentCOD && req.CODAmount <= 0 {
		respondErr(c, http.StatusBadRequest, "codAmount required for cash-on-delivery")
		return
	}
	p := &models.Parcel{
		TrackingNumber:  newTrackingNumber(),
		CustomerID:      userID,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		PickupAddress:   req.PickupAddress,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryLat:     req.DeliveryLat,
		DeliveryLng:     req.DeliveryLng,
		ParcelType:      req.ParcelType,
		WeightKg:        req.WeightKg,
		PaymentMethod:   req.PaymentMethod,
		CODAmount:       req.CODAmount,
		Status:          domain.StatusPending,
	}
	if err := h.parcelRepo.Create(p); err != nil {
		h.log.Error("book parcel failed", zap.Uint("customer_id", userID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "booking failed")
		return
	}
	_, err := h.notifSvc.Notify(userID, domain.NotifParcelBooked, "Parcel booked",
		fmt.Sprintf("Your parcel %s has been booked and is awaiting pickup.", p.TrackingNumber), &p.ID)
	if err != nil {
		h.log.Warn("booking notification failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
	}
	respondOK(c, http.StatusCreated, gin.H{"parcel": p})
}

func (h *ParcelHandler) MyParcels(c *gin.Context) {
	userID := middleware.GetUserID(c)
	status := c.Query("status")
	list, err := h.parcelRepo.ListByCustomer(userID, status)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "failed to fetch parcels")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"parcels": list})
}

// Track resolves a tracking number to status, timeline and last known position.
func (h *ParcelHandler) Track(c *gin.Context) {
	tn := c.Param("trackingNumber")
	p, err := h.parcelRepo.GetByTrackingNumber(tn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, http.StatusNotFound, "parcel not found")
			return
		}
		respondErr(c, http.StatusInternalServerError, "tracking failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"trackingNumber": p.TrackingNumber,
		"status":         p.Status,
		"statusHistory":  p.StatusHistory,
		"currentLocation": gin.H{
			"lat":       p.CurrentLat,
			"lng":       p.CurrentLng,
			"updatedAt": p.LocationAt,
		},
		"pickupAddress":   p.PickupAddress,
		"deliveryAddress": p.DeliveryAddress,
	})
}

type AssignRequest struct {
	AgentID uint `json:"agentId" binding:"required"`
}

// Assign gives a pending parcel to an approved agent (admin only).
func (h *ParcelHandler) Assign(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "invalid parcel id")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.parcelRepo.GetByID(uint(id))
	if err != nil {
		respondErr(c, http.StatusNotFound, "parcel not found")
		return
	}
	if p.Status != domain.StatusPending {
		respondErr(c, http.StatusConflict, "parcel is not pending assignment")
		return
	}
	agent, err := h.userRepo.GetByID(req.AgentID)
	if err != nil || !agent.IsAgent() {
		respondErr(c, http.StatusBadRequest, "agent not found")
		return
	}
	if err := h.parcelRepo.Assign(p, req.AgentID, adminID); err != nil {
		h.log.Error("assign parcel failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "assignment failed")
		return
	}
	if _, err := h.notifSvc.Notify(req.AgentID, domain.NotifParcelAssigned, "New delivery assigned",
		fmt.Sprintf("Parcel %s has been assigned to you.", p.TrackingNumber), &p.ID); err != nil {
		h.log.Warn("assignment notification failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
	}
	if _, err := h.notifSvc.Notify(p.CustomerID, domain.NotifStatusUpdate, "Parcel assigned",
		fmt.Sprintf("An agent has been assigned to your parcel %s.", p.TrackingNumber), &p.ID); err != nil {
		h.log.Warn("assignment notification failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
	}
	respondOK(c, http.StatusOK, gin.H{"parcel": p})
}
