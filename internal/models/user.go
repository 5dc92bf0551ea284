package models

import (
	"time"

	"gorm.io/gorm"

	"courier/internal/domain"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // customer | agent | admin
	Phone        string         `gorm:"size:32" json:"phone"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL    string         `gorm:"size:512" json:"avatarUrl"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	AgentProfile *AgentProfile `gorm:"foreignKey:UserID" json:"agentProfile,omitempty"`
}

func (u *User) IsCustomer() bool { return u.Role == domain.RoleCustomer }
func (u *User) IsAgent() bool    { return u.Role == domain.RoleAgent }
func (u *User) IsAdmin() bool    { return u.Role == domain.RoleAdmin }
