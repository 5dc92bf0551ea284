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
	"courier/pkg/cloudinary"
)

type AgentHandler struct {
	agentRepo  *repository.AgentRepository
	parcelRepo *repository.ParcelRepository
	userRepo   *repository.UserRepository
	notifSvc   *service.NotificationService
	cloud      cloudinary.Client
	log        *zap.Logger
}

func NewAgentHandler(agentRepo *repository.AgentRepository, parcelRepo *repository.ParcelRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService, cloud cloudinary.Client, log *zap.Logger) *AgentHandler {
	return &AgentHandler{agentRepo: agentRepo, parcelRepo: parcelRepo, userRepo: userRepo, notifSvc: notifSvc, cloud: cloud, log: log}
}

type ApplyRequest struct {
	VehicleType     string `json:"vehicleType" binding:"required,max=50"`
	LicenseNumber   string `json:"licenseNumber" binding:"required,max=64"`
	ApplicationNote string `json:"applicationNote" binding:"max=2000"`
}

// Apply lets a customer apply to become a delivery agent.
func (h *AgentHandler) Apply(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.agentRepo.GetByUserID(userID); err == nil {
		respondErr(c, http.StatusConflict, "application already submitted")
		return
	}
	a := &models.AgentProfile{
		UserID:          userID,
		VehicleType:     req.VehicleType,
		LicenseNumber:   req.LicenseNumber,
		ApplicationNote: req.ApplicationNote,
		Status:          domain.AgentPending,
	}
	if err := h.agentRepo.Create(a); err != nil {
		h.log.Error("agent application failed", zap.Uint("user_id", userID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "application failed")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"application": a})
}

// AssignedParcels returns the agent's parcels plus per-status statistics.
func (h *AgentHandler) AssignedParcels(c *gin.Context) {
	userID := middleware.GetUserID(c)
	status := c.Query("status")
	list, err := h.parcelRepo.ListByAgent(userID, status)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "failed to fetch assigned parcels")
		return
	}
	stats, err := h.parcelRepo.CountByAgentStatus(userID)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "failed to fetch statistics")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"parcels":    list,
		"statistics": stats,
	})
}

// UpdateParcelStatus moves an assigned parcel through the delivery lifecycle.
// Accepts multipart form (status, remarks, optional proof photo) or JSON.
func (h *AgentHandler) UpdateParcelStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	parcelID, err := strconv.ParseUint(c.Query("parcelId"), 10, 64)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "invalid parcelId")
		return
	}
	var status, remarks string
	var proofURL string
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		status = c.PostForm("status")
		remarks = c.PostForm("remarks")
		if file, err := c.FormFile("proof"); err == nil && h.cloud != nil {
			f, err := file.Open()
			if err != nil {
				respondErr(c, http.StatusBadRequest, "could not read proof file")
				return
			}
			defer f.Close()
			folder := "courier/proof/" + strconv.FormatUint(parcelID, 10)
			publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
			proofURL, _, err = h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
			if err != nil {
				h.log.Error("proof upload failed", zap.Uint64("parcel_id", parcelID), zap.Error(err))
				respondErr(c, http.StatusInternalServerError, "proof upload failed")
				return
			}
		}
	} else {
		var req struct {
			Status  string `json:"status" binding:"required"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, http.StatusBadRequest, err.Error())
			return
		}
		status, remarks = req.Status, req.Remarks
	}
	if !domain.AgentStatuses[status] {
		respondErr(c, http.StatusBadRequest, "invalid status")
		return
	}
	p, err := h.parcelRepo.GetByID(uint(parcelID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, http.StatusNotFound, "parcel not found")
			return
		}
		respondErr(c, http.StatusInternalServerError, "update failed")
		return
	}
	if p.AgentID == nil || *p.AgentID != userID {
		respondErr(c, http.StatusForbidden, "parcel is not assigned to you")
		return
	}
	if err := h.parcelRepo.UpdateStatus(p, status, remarks, proofURL, userID); err != nil {
		h.log.Error("status update failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "update failed")
		return
	}
	notifType := domain.NotifStatusUpdate
	title := "Parcel status updated"
	message := fmt.Sprintf("Your parcel %s is now %s.", p.TrackingNumber, strings.ReplaceAll(status, "-", " "))
	if status == domain.StatusDelivered {
		notifType = domain.NotifParcelDelivered
		title = "Parcel delivered"
		message = fmt.Sprintf("Your parcel %s has been delivered.", p.TrackingNumber)
	}
	if _, err := h.notifSvc.Notify(p.CustomerID, notifType, title, message, &p.ID); err != nil {
		h.log.Warn("status notification failed", zap.Uint("parcel_id", p.ID), zap.Error(err))
	}
	respondOK(c, http.StatusOK, gin.H{"parcel": p})
}

type LocationRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// UpdateLocation records the agent's position and streams it to the customers
// of every parcel the agent is currently moving.
func (h *AgentHandler) UpdateLocation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.agentRepo.UpdateLocation(userID, req.Lat, req.Lng); err != nil {
		respondErr(c, http.StatusInternalServerError, "location update failed")
		return
	}
	active, err := h.parcelRepo.UpdateLocation(userID, req.Lat, req.Lng)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "location update failed")
		return
	}
	for i := range active {
		h.notifSvc.PushParcelLocation(&active[i])
	}
	respondOK(c, http.StatusOK, gin.H{"updatedParcels": len(active)})
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

func (h *AgentHandler) SetAvailability(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.agentRepo.SetAvailability(userID, *req.IsAvailable); err != nil {
		respondErr(c, http.StatusInternalServerError, "availability update failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"isAvailable": *req.IsAvailable})
}

// PendingApplications lists agent applications awaiting review (admin only).
func (h *AgentHandler) PendingApplications(c *gin.Context) {
	list, err := h.agentRepo.ListPending()
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "failed to fetch applications")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"applications": list})
}

// Approve promotes an applicant to the agent role (admin only).
func (h *AgentHandler) Approve(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if _, err := h.agentRepo.GetByUserID(uint(userID)); err != nil {
		respondErr(c, http.StatusNotFound, "application not found")
		return
	}
	if err := h.agentRepo.SetStatus(uint(userID), domain.AgentApproved); err != nil {
		respondErr(c, http.StatusInternalServerError, "approval failed")
		return
	}
	if err := h.userRepo.UpdateRole(uint(userID), domain.RoleAgent); err != nil {
		respondErr(c, http.StatusInternalServerError, "approval failed")
		return
	}
	if _, err := h.notifSvc.Notify(uint(userID), domain.NotifAgentApproved, "Application approved",
		"Your agent application has been approved. You can now receive deliveries.", nil); err != nil {
		h.log.Warn("approval notification failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
	respondOK(c, http.StatusOK, gin.H{"userId": userID, "status": domain.AgentApproved})
}
