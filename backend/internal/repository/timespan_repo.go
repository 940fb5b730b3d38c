package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// TimespanRepository is data access for timespans.
type TimespanRepository interface {
	Create(ctx context.Context, span *model.Timespan) error
	GetByID(ctx context.Context, id int) (*model.Timespan, error)
	GetByName(ctx context.Context, name string) (*model.Timespan, error)
	List(ctx context.Context) ([]model.Timespan, error)
	Update(ctx context.Context, span *model.Timespan) error
	Delete(ctx context.Context, id int) error
}

type timespanRepo struct {
	db *gorm.DB
}

// NewTimespanRepo creates a TimespanRepository.
func NewTimespanRepo(db *gorm.DB) TimespanRepository {
	return &timespanRepo{db: db}
}

func (r *timespanRepo) Create(ctx context.Context, span *model.Timespan) error {
	return r.db.WithContext(ctx).Create(span).Error
}

func (r *timespanRepo) GetByID(ctx context.Context, id int) (*model.Timespan, error) {
	var span model.Timespan
	err := r.db.WithContext(ctx).
		Where("span_id = ?", id).
		First(&span).Error
	if err != nil {
		return nil, err
	}
	return &span, nil
}

func (r *timespanRepo) GetByName(ctx context.Context, name string) (*model.Timespan, error) {
	var span model.Timespan
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&span).Error
	if err != nil {
		return nil, err
	}
	return &span, nil
}

func (r *timespanRepo) List(ctx context.Context) ([]model.Timespan, error) {
	var spans []model.Timespan
	err := r.db.WithContext(ctx).
		Order("start_date ASC, span_id ASC").
		Find(&spans).Error
	return spans, err
}

func (r *timespanRepo) Update(ctx context.Context, span *model.Timespan) error {
	return r.db.WithContext(ctx).Save(span).Error
}

func (r *timespanRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Where("span_id = ?", id).
		Delete(&model.Timespan{}).Error
}
