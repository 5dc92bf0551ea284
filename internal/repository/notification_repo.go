package repository

import (
	"time"

	"gorm.io/gorm"

	"courier/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// NotificationFilter narrows List results; zero values mean "no filter".
type NotificationFilter struct {
	IsRead *bool
	Type   string
	Limit  int
	Offset int
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id, userID uint) (*models.Notification, error) {
	var n models.Notification
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) List(userID uint, f NotificationFilter) ([]models.Notification, error) {
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var list []models.Notification
	err := q.Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips one notification to read. read_at is written only on the
// false->true transition, so repeated calls keep the original timestamp.
func (r *NotificationRepository) MarkRead(id, userID uint) (*models.Notification, error) {
	n, err := r.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	now := time.Now()
	err = r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

func (r *NotificationRepository) MarkAllRead(userID uint) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
