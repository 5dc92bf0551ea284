package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"courier/internal/models"
	"courier/internal/repository"
	"courier/internal/ws"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(dsn, &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newService(t *testing.T) (*NotificationService, *ws.Hub, *ws.Client) {
	t.Helper()
	db := newTestDB(t)
	hub := ws.NewHub()
	client := &ws.Client{UserID: 1, Send: make(chan []byte, 16)}
	hub.Register(client)
	svc := NewNotificationService(repository.NewNotificationRepository(db), hub, nil)
	return svc, hub, client
}

func nextFrame(t *testing.T, c *ws.Client) frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	default:
		t.Fatal("expected a pushed frame")
		return frame{}
	}
}

func TestNotifyPersistsThenPushes(t *testing.T) {
	svc, _, client := newService(t)

	parcelID := uint(42)
	n, err := svc.Notify(1, "parcel-booked", "Parcel booked", "on its way", &parcelID)
	require.NoError(t, err)
	require.NotZero(t, n.ID)
	require.False(t, n.IsRead)

	f := nextFrame(t, client)
	require.Equal(t, ws.EventNew, f.Event)
	var p ws.NewPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	require.Equal(t, n.ID, p.NotificationID)
	require.Equal(t, "Parcel booked", p.Title)
	require.False(t, p.IsRead)
	require.Equal(t, parcelID, *p.ParcelID)
}

func TestMarkReadIsIdempotentAndPreservesReadAt(t *testing.T) {
	svc, _, client := newService(t)
	n, err := svc.Notify(1, "system", "t", "m", nil)
	require.NoError(t, err)
	<-client.Send // drop the new-event frame

	first, err := svc.MarkRead(n.ID, 1)
	require.NoError(t, err)
	require.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)
	require.Equal(t, ws.EventRead, nextFrame(t, client).Event)

	second, err := svc.MarkRead(n.ID, 1)
	require.NoError(t, err)
	require.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix())
}

func TestMarkReadWrongUser(t *testing.T) {
	svc, _, client := newService(t)
	n, err := svc.Notify(1, "system", "t", "m", nil)
	require.NoError(t, err)
	<-client.Send

	_, err = svc.MarkRead(n.ID, 2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkAllReadPushesSingleEvent(t *testing.T) {
	svc, _, client := newService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Notify(1, "system", "t", "m", nil)
		require.NoError(t, err)
		<-client.Send
	}

	affected, err := svc.MarkAllRead(1)
	require.NoError(t, err)
	require.EqualValues(t, 3, affected)
	require.Equal(t, ws.EventAllRead, nextFrame(t, client).Event)

	_, unread, err := svc.List(1, repository.NotificationFilter{})
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestDeletePushesDeletedEvent(t *testing.T) {
	svc, _, client := newService(t)
	n, err := svc.Notify(1, "system", "t", "m", nil)
	require.NoError(t, err)
	<-client.Send

	require.NoError(t, svc.Delete(n.ID, 1))
	f := nextFrame(t, client)
	require.Equal(t, ws.EventDeleted, f.Event)
	var p ws.DeletedPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	require.Equal(t, n.ID, p.NotificationID)

	require.ErrorIs(t, svc.Delete(n.ID, 1), gorm.ErrRecordNotFound)
}

func TestListFiltersAndUnreadCount(t *testing.T) {
	svc, _, client := newService(t)
	a, err := svc.Notify(1, "parcel-booked", "a", "m", nil)
	require.NoError(t, err)
	_, err = svc.Notify(1, "system", "b", "m", nil)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		<-client.Send
	}
	_, err = svc.MarkRead(a.ID, 1)
	require.NoError(t, err)
	<-client.Send

	list, unread, err := svc.List(1, repository.NotificationFilter{Type: "system"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "system", list[0].Type)
	require.EqualValues(t, 1, unread)

	isRead := true
	list, _, err = svc.List(1, repository.NotificationFilter{IsRead: &isRead})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)
}

func TestPushParcelLocationTargetsCustomer(t *testing.T) {
	svc, hub, client := newService(t)
	other := &ws.Client{UserID: 2, Send: make(chan []byte, 4)}
	hub.Register(other)

	lat, lng := 23.78, 90.40
	at := time.Now()
	p := &models.Parcel{ID: 7, CustomerID: 1, TrackingNumber: "CR-ABC", Status: "in-transit",
		CurrentLat: &lat, CurrentLng: &lng, LocationAt: &at}
	svc.PushParcelLocation(p)

	f := nextFrame(t, client)
	require.Equal(t, ws.EventParcelLocation, f.Event)
	select {
	case <-other.Send:
		t.Fatal("location must only go to the parcel's customer")
	default:
	}

	// Without a reported position nothing is pushed.
	svc.PushParcelLocation(&models.Parcel{ID: 8, CustomerID: 1})
	select {
	case <-client.Send:
		t.Fatal("unexpected frame for positionless parcel")
	default:
	}
}
