package service

import (
	"go.uber.org/zap"

	"courier/internal/models"
	"courier/internal/repository"
	"courier/internal/ws"
)

// NotificationService persists notification mutations and then pushes the
// matching event on the owner's channel. Persist-first ordering means a push
// is never emitted for a write that failed; clients that issued the mutation
// themselves will see the change twice (response mirror + push), which the
// sync protocol tolerates.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
	log  *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, hub: hub, log: log}
}

func (s *NotificationService) List(userID uint, f repository.NotificationFilter) ([]models.Notification, int64, error) {
	list, err := s.repo.List(userID, f)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.UnreadCount(userID)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

func (s *NotificationService) Notify(userID uint, notifType, title, message string, parcelID *uint) (*models.Notification, error) {
	n := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		ParcelID: parcelID,
	}
	if err := s.repo.Create(n); err != nil {
		return nil, err
	}
	s.hub.SendToUser(userID, ws.EventNew, ws.NewPayload{
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		IsRead:         n.IsRead,
		ParcelID:       n.ParcelID,
		CreatedAt:      n.CreatedAt,
	})
	return n, nil
}

func (s *NotificationService) MarkRead(id, userID uint) (*models.Notification, error) {
	n, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return nil, err
	}
	if n.ReadAt != nil {
		s.hub.SendToUser(userID, ws.EventRead, ws.ReadPayload{
			NotificationID: n.ID,
			ReadAt:         *n.ReadAt,
		})
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	affected, err := s.repo.MarkAllRead(userID)
	if err != nil {
		return 0, err
	}
	s.hub.SendToUser(userID, ws.EventAllRead, nil)
	return affected, nil
}

func (s *NotificationService) Delete(id, userID uint) error {
	if err := s.repo.Delete(id, userID); err != nil {
		return err
	}
	s.hub.SendToUser(userID, ws.EventDeleted, ws.DeletedPayload{NotificationID: id})
	return nil
}

// PushParcelLocation streams an assigned agent's position to the parcel's
// customer. Not persisted; a missed frame is recovered by the next one.
func (s *NotificationService) PushParcelLocation(p *models.Parcel) {
	if p.CurrentLat == nil || p.CurrentLng == nil || p.LocationAt == nil {
		return
	}
	s.hub.SendToUser(p.CustomerID, ws.EventParcelLocation, ws.LocationPayload{
		ParcelID:       p.ID,
		TrackingNumber: p.TrackingNumber,
		Status:         p.Status,
		Lat:            *p.CurrentLat,
		Lng:            *p.CurrentLng,
		UpdatedAt:      *p.LocationAt,
	})
}
