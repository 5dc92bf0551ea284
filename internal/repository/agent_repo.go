package repository

import (
	"time"

	"gorm.io/gorm"

	"courier/internal/domain"
	"courier/internal/models"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(a *models.AgentProfile) error {
	return r.db.Create(a).Error
}

func (r *AgentRepository) GetByUserID(userID uint) (*models.AgentProfile, error) {
	var a models.AgentProfile
	if err := r.db.Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) ListPending() ([]models.AgentProfile, error) {
	var list []models.AgentProfile
	err := r.db.Preload("User").Where("status = ?", domain.AgentPending).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *AgentRepository) SetStatus(userID uint, status string) error {
	return r.db.Model(&models.AgentProfile{}).Where("user_id = ?", userID).Update("status", status).Error
}

func (r *AgentRepository) SetAvailability(userID uint, available bool) error {
	return r.db.Model(&models.AgentProfile{}).Where("user_id = ?", userID).Update("is_available", available).Error
}

func (r *AgentRepository) UpdateLocation(userID uint, lat, lng float64) error {
	return r.db.Model(&models.AgentProfile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"lat":         lat,
		"lng":         lng,
		"location_at": time.Now(),
	}).Error
}
