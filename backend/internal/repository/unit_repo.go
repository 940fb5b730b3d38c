package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// UnitRepository is data access for unit.
type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	GetByID(ctx context.Context, id int) (*model.Unit, error)
	ListByHelpdesk(ctx context.Context, helpdeskID int, activeOnly bool) ([]model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	SoftDelete(ctx context.Context, id int) error
}

type unitRepo struct {
	db *gorm.DB
}

// NewUnitRepo creates a UnitRepository.
func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Omit("Topics").Create(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, id int) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", id).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) ListByHelpdesk(ctx context.Context, helpdeskID int, activeOnly bool) ([]model.Unit, error) {
	var units []model.Unit
	db := r.db.WithContext(ctx).
		Joins("JOIN helpdeskunit hu ON hu.unit_id = unit.unit_id").
		Where("hu.helpdesk_id = ?", helpdeskID).
		Preload("Topics", "is_deleted = ?", false)

	if activeOnly {
		db = db.Where("unit.is_deleted = ?", false)
	}

	err := db.Order("unit.code ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) Update(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Omit("Topics").Save(unit).Error
}

func (r *unitRepo) SoftDelete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("unit_id = ?", id).
		Update("is_deleted", true).Error
}
