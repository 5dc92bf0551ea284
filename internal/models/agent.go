package models

import (
	"time"

	"gorm.io/gorm"
)

// AgentProfile tracks a courier agent's application, availability and last
// reported position. Created by the apply endpoint, activated on admin approval.
type AgentProfile struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"userId"`
	VehicleType     string         `gorm:"size:50" json:"vehicleType"`
	LicenseNumber   string         `gorm:"size:64" json:"licenseNumber"`
	ApplicationNote string         `gorm:"type:text" json:"applicationNote"`
	Status          string         `gorm:"size:20;not null;index;default:pending" json:"status"` // pending | approved | rejected
	IsAvailable     bool           `gorm:"default:true" json:"isAvailable"`
	Lat             float64        `json:"lat"`
	Lng             float64        `json:"lng"`
	LocationAt      *time.Time     `json:"locationAt"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (AgentProfile) TableName() string {
	return "agent_profiles"
}
