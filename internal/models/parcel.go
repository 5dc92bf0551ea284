package models

import (
	"time"

	"gorm.io/gorm"
)

type Parcel struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TrackingNumber string `gorm:"uniqueIndex;size:32;not null" json:"trackingNumber"`
	CustomerID     uint   `gorm:"not null;index" json:"customerId"`
	AgentID        *uint  `gorm:"index" json:"agentId"`

	ReceiverName  string `gorm:"size:128;not null" json:"receiverName"`
	ReceiverPhone string `gorm:"size:32" json:"receiverPhone"`

	PickupAddress string  `gorm:"size:512;not null" json:"pickupAddress"`
	PickupLat     float64 `json:"pickupLat"`
	PickupLng     float64 `json:"pickupLng"`

	DeliveryAddress string  `gorm:"size:512;not null" json:"deliveryAddress"`
	DeliveryLat     float64 `json:"deliveryLat"`
	DeliveryLng     float64 `json:"deliveryLng"`

	ParcelType    string  `gorm:"size:50" json:"parcelType"`
	WeightKg      float64 `json:"weightKg"`
	PaymentMethod string  `gorm:"size:20;not null;default:prepaid" json:"paymentMethod"` // prepaid | cod
	CODAmount     float64 `json:"codAmount"`

	Status string `gorm:"size:30;not null;index;default:pending" json:"status"`

	// Last position reported by the assigned agent while the parcel is moving.
	CurrentLat *float64   `json:"currentLat"`
	CurrentLng *float64   `json:"currentLng"`
	LocationAt *time.Time `json:"locationAt"`

	DeliveryProofURL string `gorm:"size:512" json:"deliveryProofUrl"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer      User               `gorm:"foreignKey:CustomerID" json:"-"`
	StatusHistory []ParcelStatusEvent `gorm:"foreignKey:ParcelID" json:"statusHistory,omitempty"`
}

func (Parcel) TableName() string {
	return "parcels"
}

// ParcelStatusEvent is one entry in a parcel's status timeline.
type ParcelStatusEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParcelID  uint      `gorm:"not null;index" json:"parcelId"`
	Status    string    `gorm:"size:30;not null" json:"status"`
	Remarks   string    `gorm:"size:512" json:"remarks"`
	ActorID   uint      `json:"actorId"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (ParcelStatusEvent) TableName() string {
	return "parcel_status_events"
}
