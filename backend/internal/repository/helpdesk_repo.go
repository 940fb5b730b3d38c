package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// HelpdeskRepository is data access for helpdesksettings and helpdeskunit.
type HelpdeskRepository interface {
	Create(ctx context.Context, h *model.Helpdesk) error
	GetByID(ctx context.Context, id int) (*model.Helpdesk, error)
	List(ctx context.Context, activeOnly bool) ([]model.Helpdesk, error)
	Update(ctx context.Context, h *model.Helpdesk) error
	SoftDelete(ctx context.Context, id int) error

	LinkUnit(ctx context.Context, helpdeskID, unitID int) error
	ListUnitIDs(ctx context.Context, helpdeskID int) ([]int, error)
}

type helpdeskRepo struct {
	db *gorm.DB
}

// NewHelpdeskRepo creates a HelpdeskRepository.
func NewHelpdeskRepo(db *gorm.DB) HelpdeskRepository {
	return &helpdeskRepo{db: db}
}

func (r *helpdeskRepo) Create(ctx context.Context, h *model.Helpdesk) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *helpdeskRepo) GetByID(ctx context.Context, id int) (*model.Helpdesk, error) {
	var h model.Helpdesk
	err := r.db.WithContext(ctx).
		Where("helpdesk_id = ?", id).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *helpdeskRepo) List(ctx context.Context, activeOnly bool) ([]model.Helpdesk, error) {
	var helpdesks []model.Helpdesk
	db := r.db.WithContext(ctx)

	if activeOnly {
		db = db.Where("is_deleted = ?", false)
	}

	err := db.Order("name ASC").Find(&helpdesks).Error
	return helpdesks, err
}

func (r *helpdeskRepo) Update(ctx context.Context, h *model.Helpdesk) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *helpdeskRepo) SoftDelete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Model(&model.Helpdesk{}).
		Where("helpdesk_id = ?", id).
		Update("is_deleted", true).Error
}

func (r *helpdeskRepo) LinkUnit(ctx context.Context, helpdeskID, unitID int) error {
	return r.db.WithContext(ctx).Create(&model.HelpdeskUnit{
		HelpdeskID: helpdeskID,
		UnitID:     unitID,
	}).Error
}

func (r *helpdeskRepo) ListUnitIDs(ctx context.Context, helpdeskID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&model.HelpdeskUnit{}).
		Where("helpdesk_id = ?", helpdeskID).
		Order("unit_id ASC").
		Pluck("unit_id", &ids).Error
	return ids, err
}
