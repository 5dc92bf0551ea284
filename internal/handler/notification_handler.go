package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"courier/internal/middleware"
	"courier/internal/repository"
	"courier/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// List returns the caller's notifications plus the unread count, optionally
// filtered by isRead/type with limit/offset paging.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var f repository.NotificationFilter
	if v, ok := c.GetQuery("isRead"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondErr(c, http.StatusBadRequest, "invalid isRead filter")
			return
		}
		f.IsRead = &b
	}
	f.Type = c.Query("type")
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, unread, err := h.svc.List(userID, f)
	if err != nil {
		h.log.Error("list notifications failed", zap.Uint("user_id", userID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"notifications": list,
		"unreadCount":   unread,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	n, err := h.svc.MarkRead(uint(id), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, http.StatusNotFound, "notification not found")
			return
		}
		respondErr(c, http.StatusInternalServerError, "failed to mark as read")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"notificationId": n.ID,
		"readAt":         n.ReadAt,
	})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	affected, err := h.svc.MarkAllRead(userID)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "failed to mark all as read")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": affected})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.svc.Delete(uint(id), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, http.StatusNotFound, "notification not found")
			return
		}
		respondErr(c, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"notificationId": id})
}

type CreateNotificationRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	Title    string `json:"title" binding:"required,max=255"`
	Message  string `json:"message" binding:"required"`
	Type     string `json:"type" binding:"required,max=50"`
	ParcelID *uint  `json:"parcelId"`
}

// Create lets an admin push a notification to any user.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.svc.Notify(req.UserID, req.Type, req.Title, req.Message, req.ParcelID)
	if err != nil {
		h.log.Error("create notification failed", zap.Uint("user_id", req.UserID), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "failed to create notification")
		return
	}
	respondOK(c, http.StatusCreated, n)
}
