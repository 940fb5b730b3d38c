package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// TopicRepository is data access for topic.
type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	GetByID(ctx context.Context, id int) (*model.Topic, error)
	ListByUnit(ctx context.Context, unitID int, includeDeleted bool) ([]model.Topic, error)
	ListIDsByUnits(ctx context.Context, unitIDs []int) ([]int, error)
	Update(ctx context.Context, topic *model.Topic) error
	SoftDeleteByUnit(ctx context.Context, unitID int) error
}

type topicRepo struct {
	db *gorm.DB
}

// NewTopicRepo creates a TopicRepository.
func NewTopicRepo(db *gorm.DB) TopicRepository {
	return &topicRepo{db: db}
}

func (r *topicRepo) Create(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Omit("Unit").Create(topic).Error
}

func (r *topicRepo) GetByID(ctx context.Context, id int) (*model.Topic, error) {
	var topic model.Topic
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", id).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepo) ListByUnit(ctx context.Context, unitID int, includeDeleted bool) ([]model.Topic, error) {
	var topics []model.Topic
	db := r.db.WithContext(ctx).Where("unit_id = ?", unitID)

	if !includeDeleted {
		db = db.Where("is_deleted = ?", false)
	}

	err := db.Order("topic_id ASC").Find(&topics).Error
	return topics, err
}

// ListIDsByUnits includes deleted topics: items filed under a topic that
// was later removed still belong to the unit.
func (r *topicRepo) ListIDsByUnits(ctx context.Context, unitIDs []int) ([]int, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&model.Topic{}).
		Where("unit_id IN ?", unitIDs).
		Pluck("topic_id", &ids).Error
	return ids, err
}

func (r *topicRepo) Update(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Omit("Unit").Save(topic).Error
}

func (r *topicRepo) SoftDeleteByUnit(ctx context.Context, unitID int) error {
	return r.db.WithContext(ctx).
		Model(&model.Topic{}).
		Where("unit_id = ?", unitID).
		Update("is_deleted", true).Error
}
