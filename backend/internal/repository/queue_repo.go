package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// QueueRepository is data access for queueitem.
type QueueRepository interface {
	Create(ctx context.Context, item *model.QueueItem) error
	GetByID(ctx context.Context, id int) (*model.QueueItem, error)
	// UpdateDetails writes topic_id and description only; the timestamps
	// are never touched.
	UpdateDetails(ctx context.Context, id, topicID int, description string) (int64, error)
	// MarkHelped sets time_helped on an item that is neither helped nor
	// removed. Zero rows affected means the guard failed.
	MarkHelped(ctx context.Context, id int, at time.Time) (int64, error)
	// MarkRemoved sets time_removed on an item that is not removed yet.
	MarkRemoved(ctx context.Context, id int, at time.Time) (int64, error)
	// ListActiveByTopics returns items not yet removed, oldest first, with
	// student and topic (and the topic's unit) preloaded.
	ListActiveByTopics(ctx context.Context, topicIDs []int) ([]model.QueueItem, error)
	ListByCheckIn(ctx context.Context, checkInID int, includeRemoved bool) ([]model.QueueItem, error)
	// RemovePendingByCheckIn and RemovePendingByTopics stamp at, or
	// time_added when that is later.
	RemovePendingByCheckIn(ctx context.Context, checkInID int, at time.Time) (int64, error)
	RemovePendingByTopics(ctx context.Context, topicIDs []int, at time.Time) (int64, error)
}

type queueRepo struct {
	db *gorm.DB
}

// NewQueueRepo creates a QueueRepository.
func NewQueueRepo(db *gorm.DB) QueueRepository {
	return &queueRepo{db: db}
}

func (r *queueRepo) Create(ctx context.Context, item *model.QueueItem) error {
	return r.db.WithContext(ctx).Omit("Student", "Topic").Create(item).Error
}

func (r *queueRepo) GetByID(ctx context.Context, id int) (*model.QueueItem, error) {
	var item model.QueueItem
	err := r.db.WithContext(ctx).
		Where("item_id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *queueRepo) UpdateDetails(ctx context.Context, id, topicID int, description string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QueueItem{}).
		Where("item_id = ?", id).
		Updates(map[string]interface{}{"topic_id": topicID, "description": description})
	return res.RowsAffected, res.Error
}

func (r *queueRepo) MarkHelped(ctx context.Context, id int, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QueueItem{}).
		Where("item_id = ?", id).
		Where("time_helped IS NULL AND time_removed IS NULL").
		Update("time_helped", at)
	return res.RowsAffected, res.Error
}

func (r *queueRepo) MarkRemoved(ctx context.Context, id int, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QueueItem{}).
		Where("item_id = ?", id).
		Where("time_removed IS NULL").
		Update("time_removed", at)
	return res.RowsAffected, res.Error
}

// withDetails preloads the student and the topic with its unit.
func (r *queueRepo) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Topic").Preload("Topic.Unit")
}

func (r *queueRepo) ListActiveByTopics(ctx context.Context, topicIDs []int) ([]model.QueueItem, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	var items []model.QueueItem
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("topic_id IN ?", topicIDs).
		Where("time_removed IS NULL").
		Order("time_added ASC, item_id ASC").
		Find(&items).Error
	return items, err
}

func (r *queueRepo) ListByCheckIn(ctx context.Context, checkInID int, includeRemoved bool) ([]model.QueueItem, error) {
	var items []model.QueueItem
	db := r.withDetails(r.db.WithContext(ctx)).
		Where("item_id IN (?)", r.db.Model(&model.CheckInQueueItem{}).
			Select("queue_item_id").
			Where("check_in_id = ?", checkInID))

	if !includeRemoved {
		db = db.Where("time_removed IS NULL")
	}

	err := db.Order("time_added ASC, item_id ASC").Find(&items).Error
	return items, err
}

func (r *queueRepo) RemovePendingByCheckIn(ctx context.Context, checkInID int, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QueueItem{}).
		Where("item_id IN (?)", r.db.Model(&model.CheckInQueueItem{}).
			Select("queue_item_id").
			Where("check_in_id = ?", checkInID)).
		Where("time_removed IS NULL").
		Update("time_removed", gorm.Expr("GREATEST(?, time_added)", at))
	return res.RowsAffected, res.Error
}

func (r *queueRepo) RemovePendingByTopics(ctx context.Context, topicIDs []int, at time.Time) (int64, error) {
	if len(topicIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.QueueItem{}).
		Where("topic_id IN ?", topicIDs).
		Where("time_removed IS NULL").
		Update("time_removed", gorm.Expr("GREATEST(?, time_added)", at))
	return res.RowsAffected, res.Error
}
