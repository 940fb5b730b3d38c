package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// CheckInRepository is data access for checkinhistory and checkinqueueitem.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *model.CheckIn) error
	GetByID(ctx context.Context, id int) (*model.CheckIn, error)
	// Close stamps checkout_time (and forced_checkout when non-nil) on an
	// open check-in. Zero rows affected means it was already closed.
	Close(ctx context.Context, id int, at time.Time, forced *bool) (int64, error)
	// ListOpenByUnits returns open, non-forced check-ins with the student preloaded.
	ListOpenByUnits(ctx context.Context, unitIDs []int) ([]model.CheckIn, error)
	// ForceCloseOpenByUnits closes every open check-in of the units at the
	// given time, or at check_in_time when that is later.
	ForceCloseOpenByUnits(ctx context.Context, unitIDs []int, at time.Time) (int64, error)

	LinkQueueItem(ctx context.Context, checkInID, queueItemID int) error
}

type checkInRepo struct {
	db *gorm.DB
}

// NewCheckInRepo creates a CheckInRepository.
func NewCheckInRepo(db *gorm.DB) CheckInRepository {
	return &checkInRepo{db: db}
}

func (r *checkInRepo) Create(ctx context.Context, checkIn *model.CheckIn) error {
	return r.db.WithContext(ctx).Omit("Student").Create(checkIn).Error
}

func (r *checkInRepo) GetByID(ctx context.Context, id int) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.db.WithContext(ctx).
		Where("check_in_id = ?", id).
		First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepo) Close(ctx context.Context, id int, at time.Time, forced *bool) (int64, error) {
	values := map[string]interface{}{"checkout_time": at}
	if forced != nil {
		values["forced_checkout"] = *forced
	}
	res := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("check_in_id = ?", id).
		Where("checkout_time IS NULL").
		Updates(values)
	return res.RowsAffected, res.Error
}

func (r *checkInRepo) ListOpenByUnits(ctx context.Context, unitIDs []int) ([]model.CheckIn, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	var checkIns []model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("unit_id IN ?", unitIDs).
		Where("checkout_time IS NULL").
		Where("forced_checkout IS NULL OR forced_checkout = ?", false).
		Order("check_in_time ASC").
		Find(&checkIns).Error
	return checkIns, err
}

func (r *checkInRepo) ForceCloseOpenByUnits(ctx context.Context, unitIDs []int, at time.Time) (int64, error) {
	if len(unitIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("unit_id IN ?", unitIDs).
		Where("checkout_time IS NULL").
		Updates(map[string]interface{}{
			"checkout_time":   gorm.Expr("GREATEST(?, check_in_time)", at),
			"forced_checkout": true,
		})
	return res.RowsAffected, res.Error
}

func (r *checkInRepo) LinkQueueItem(ctx context.Context, checkInID, queueItemID int) error {
	return r.db.WithContext(ctx).Create(&model.CheckInQueueItem{
		CheckInID:   checkInID,
		QueueItemID: queueItemID,
	}).Error
}
