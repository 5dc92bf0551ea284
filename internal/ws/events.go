package ws

import (
	"encoding/json"
	"time"
)

// Event names pushed on a user's notification channel.
const (
	EventNew            = "notification:new"
	EventRead           = "notification:read"
	EventAllRead        = "notification:all-read"
	EventDeleted        = "notification:deleted"
	EventParcelLocation = "parcel:location"

	// EventJoin is the frame a client must send after connecting before any
	// pushes are delivered to it.
	EventJoin = "join-notifications"
)

// Frame is the wire envelope for every websocket message.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// inboundFrame is Frame as read from a client, payload left undecoded.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type NewPayload struct {
	NotificationID uint      `json:"notificationId"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	IsRead         bool      `json:"isRead"`
	ParcelID       *uint     `json:"parcelId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ReadPayload struct {
	NotificationID uint      `json:"notificationId"`
	ReadAt         time.Time `json:"readAt"`
}

type DeletedPayload struct {
	NotificationID uint `json:"notificationId"`
}

// LocationPayload feeds the live-tracking view for a customer's moving parcel.
type LocationPayload struct {
	ParcelID       uint      `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
