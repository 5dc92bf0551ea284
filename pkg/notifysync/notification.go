// Package notifysync keeps a client-side notification list and unread counter
// consistent with the server's push channel and REST API.
//
// A Store is constructed when a user authenticates and closed on logout; it is
// the single owner of the list and count. A Client loads snapshots and issues
// user actions against the REST API, mirroring successful mutations into the
// Store. A Session holds the websocket connection and feeds pushed events into
// the Store. Both paths go through the same reducer, so the server echoing an
// action back as a push event is harmless.
package notifysync

import "time"

// Notification mirrors the server's wire representation.
type Notification struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	ParcelID  *uint      `json:"parcelId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
