package repository

import (
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(s *models.Shipment) error {
	return r.db.Create(s).Error
}

func (r *ShipmentRepository) GetByID(id uint) (*models.Shipment, error) {
	var s models.Shipment
	err := r.db.Preload("Customer").Preload("CreatedBy").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByIDFull loads the shipment with its timeline and documents for the
// detail view.
func (r *ShipmentRepository) GetByIDFull(id uint) (*models.Shipment, error) {
	var s models.Shipment
	err := r.db.
		Preload("Customer").
		Preload("CreatedBy").
		Preload("Documents").
		Preload("TimelineEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("timeline_events.created_at DESC")
		}).
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) GetByReference(reference string) (*models.Shipment, error) {
	var s models.Shipment
	err := r.db.
		Preload("TimelineEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("timeline_events.created_at DESC")
		}).
		Where("reference = ?", reference).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListFilter narrows List; zero values mean "no filter".
type ListFilter struct {
	Status     domain.ShipmentStatus
	CustomerID uint
	Limit      int
	Offset     int
}

func (r *ShipmentRepository) List(f ListFilter) ([]models.Shipment, int64, error) {
	q := r.db.Model(&models.Shipment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Shipment
	err := q.Preload("Customer").Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

// UpdateStatus writes the new status and bumps updated_at. It does not
// validate the transition; any enumerated value is accepted.
func (r *ShipmentRepository) UpdateStatus(id uint, status domain.ShipmentStatus) error {
	return r.db.Model(&models.Shipment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *ShipmentRepository) Update(s *models.Shipment) error {
	return r.db.Save(s).Error
}

// ListOverdue returns shipments past their expected arrival whose status is
// not in the terminal set for delay scanning.
func (r *ShipmentRepository) ListOverdue(now time.Time) ([]models.Shipment, error) {
	var list []models.Shipment
	err := r.db.
		Preload("Customer").
		Where("expected_arrival IS NOT NULL AND expected_arrival < ?", now).
		Where("status NOT IN ?", domain.DelayTerminalStatuses).
		Find(&list).Error
	return list, err
}

// CountByStatus returns shipment counts grouped by status for the dashboard.
func (r *ShipmentRepository) CountByStatus() (map[domain.ShipmentStatus]int64, error) {
	type row struct {
		Status domain.ShipmentStatus
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Shipment{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.ShipmentStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.N
	}
	return counts, nil
}

func (r *ShipmentRepository) CountOverdue(now time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Shipment{}).
		Where("expected_arrival IS NOT NULL AND expected_arrival < ?", now).
		Where("status NOT IN ?", domain.DelayTerminalStatuses).
		Count(&n).Error
	return n, err
}
