package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"userId"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Type      string         `gorm:"size:50;not null;index" json:"type"`
	IsRead    bool           `gorm:"not null;default:false;index" json:"isRead"`
	ReadAt    *time.Time     `json:"readAt"`
	ParcelID  *uint          `gorm:"index" json:"parcelId"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
