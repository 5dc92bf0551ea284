package repository

import (
	"time"

	"gorm.io/gorm"

	"courier/internal/domain"
	"courier/internal/models"
)

type ParcelRepository struct {
	db *gorm.DB
}

func NewParcelRepository(db *gorm.DB) *ParcelRepository {
	return &ParcelRepository{db: db}
}

func (r *ParcelRepository) Create(p *models.Parcel) error {
	return r.db.Create(p).Error
}

func (r *ParcelRepository) GetByID(id uint) (*models.Parcel, error) {
	var p models.Parcel
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParcelRepository) GetByTrackingNumber(tn string) (*models.Parcel, error) {
	var p models.Parcel
	err := r.db.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp ASC")
	}).Where("tracking_number = ?", tn).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParcelRepository) ListByCustomer(customerID uint, status string) ([]models.Parcel, error) {
	q := r.db.Where("customer_id = ?", customerID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Parcel
	err := q.Find(&list).Error
	return list, err
}

func (r *ParcelRepository) ListByAgent(agentID uint, status string) ([]models.Parcel, error) {
	q := r.db.Where("agent_id = ?", agentID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Parcel
	err := q.Find(&list).Error
	return list, err
}

// CountByAgentStatus returns status -> parcel count for an agent's dashboard.
func (r *ParcelRepository) CountByAgentStatus(agentID uint) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Parcel{}).
		Select("status, COUNT(*) AS n").
		Where("agent_id = ?", agentID).
		Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(rows))
	for _, rw := range rows {
		stats[rw.Status] = rw.N
	}
	return stats, nil
}

func (r *ParcelRepository) UpdateStatus(p *models.Parcel, status, remarks, proofURL string, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if proofURL != "" {
			updates["delivery_proof_url"] = proofURL
		}
		if err := tx.Model(p).Updates(updates).Error; err != nil {
			return err
		}
		p.Status = status
		if proofURL != "" {
			p.DeliveryProofURL = proofURL
		}
		return tx.Create(&models.ParcelStatusEvent{
			ParcelID: p.ID,
			Status:   status,
			Remarks:  remarks,
			ActorID:  actorID,
		}).Error
	})
}

func (r *ParcelRepository) Assign(p *models.Parcel, agentID, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(p).Updates(map[string]interface{}{"agent_id": agentID, "status": domain.StatusAssigned}).Error
		if err != nil {
			return err
		}
		p.AgentID = &agentID
		p.Status = domain.StatusAssigned
		return tx.Create(&models.ParcelStatusEvent{
			ParcelID: p.ID,
			Status:   domain.StatusAssigned,
			ActorID:  actorID,
		}).Error
	})
}

// UpdateLocation stores the latest agent-reported position on every active
// parcel assigned to that agent.
func (r *ParcelRepository) UpdateLocation(agentID uint, lat, lng float64) ([]models.Parcel, error) {
	var active []models.Parcel
	err := r.db.Where("agent_id = ? AND status IN ?", agentID,
		[]string{domain.StatusAssigned, domain.StatusPickedUp, domain.StatusInTransit, domain.StatusOutForDelivery}).Find(&active).Error
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range active {
		err := r.db.Model(&active[i]).Updates(map[string]interface{}{
			"current_lat": lat,
			"current_lng": lng,
			"location_at": now,
		}).Error
		if err != nil {
			return nil, err
		}
		active[i].CurrentLat = &lat
		active[i].CurrentLng = &lng
		active[i].LocationAt = &now
	}
	return active, nil
}
