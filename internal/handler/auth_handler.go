package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courier/internal/middleware"
	"courier/internal/repository"
	"courier/internal/service"
)

type AuthHandler struct {
	svc      *service.AuthService
	userRepo *repository.UserRepository
	log      *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, userRepo *repository.UserRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, userRepo: userRepo, log: log}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	u, access, refresh, err := h.svc.Register(req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			respondErr(c, http.StatusConflict, err.Error())
			return
		}
		h.log.Error("register failed", zap.String("email", req.Email), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "registration failed")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			respondErr(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error("login failed", zap.String("email", req.Email), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "login failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}
	u, access, refresh, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		respondErr(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout is stateless on the server; the client drops its tokens and tears
// down the notification channel.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user; the frontend calls this on mount to
// decide whether a session exists.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondErr(c, http.StatusNotFound, "user not found")
		return
	}
	respondOK(c, http.StatusOK, u)
}
