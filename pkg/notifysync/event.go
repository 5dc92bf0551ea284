package notifysync

import (
	"encoding/json"
	"errors"
	"time"
)

// EventKind enumerates the push events the server emits on a user's channel.
type EventKind int

const (
	EventNew EventKind = iota + 1
	EventRead
	EventAllRead
	EventDeleted
)

// Wire event names.
const (
	wireNew     = "notification:new"
	wireRead    = "notification:read"
	wireAllRead = "notification:all-read"
	wireDeleted = "notification:deleted"
	wireJoin    = "join-notifications"
)

// Event is one decoded push event. Notification is set for New; ID and ReadAt
// for Read; ID for Deleted; AllRead carries nothing.
type Event struct {
	Kind         EventKind
	Notification Notification
	ID           uint
	ReadAt       time.Time
}

type wireFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Push payloads key the notification as notificationId; the snapshot list
// keys it as id.
type newPayload struct {
	NotificationID uint       `json:"notificationId"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Type           string     `json:"type"`
	IsRead         bool       `json:"isRead"`
	ParcelID       *uint      `json:"parcelId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}

type readPayload struct {
	NotificationID uint      `json:"notificationId"`
	ReadAt         time.Time `json:"readAt"`
}

type deletedPayload struct {
	NotificationID uint `json:"notificationId"`
}

var errUnknownEvent = errors.New("unknown event")

// decodeEvent parses a raw websocket frame into an Event. Unknown event names
// return errUnknownEvent so callers can skip frames meant for other consumers
// (e.g. parcel location updates) without treating them as corruption.
func decodeEvent(raw []byte) (Event, error) {
	var f wireFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, err
	}
	switch f.Event {
	case wireNew:
		var p newPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return Event{}, err
		}
		if p.NotificationID == 0 {
			return Event{}, errors.New("notification:new missing notificationId")
		}
		return Event{Kind: EventNew, Notification: Notification{
			ID:        p.NotificationID,
			Title:     p.Title,
			Message:   p.Message,
			Type:      p.Type,
			IsRead:    p.IsRead,
			ReadAt:    p.ReadAt,
			ParcelID:  p.ParcelID,
			CreatedAt: p.CreatedAt,
		}}, nil
	case wireRead:
		var p readPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return Event{}, err
		}
		if p.NotificationID == 0 {
			return Event{}, errors.New("notification:read missing notificationId")
		}
		return Event{Kind: EventRead, ID: p.NotificationID, ReadAt: p.ReadAt}, nil
	case wireAllRead:
		return Event{Kind: EventAllRead}, nil
	case wireDeleted:
		var p deletedPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return Event{}, err
		}
		if p.NotificationID == 0 {
			return Event{}, errors.New("notification:deleted missing notificationId")
		}
		return Event{Kind: EventDeleted, ID: p.NotificationID}, nil
	default:
		return Event{}, errUnknownEvent
	}
}
