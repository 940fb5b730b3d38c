package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
)

// TopicService reads the topics of a unit.
type TopicService interface {
	ListByUnit(ctx context.Context, unitID int) ([]dto.TopicResponse, error)
}

type topicService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTopicService creates a TopicService.
func NewTopicService(repo *repository.Repository, logger *zap.Logger) TopicService {
	return &topicService{repo: repo, logger: logger}
}

func (s *topicService) ListByUnit(ctx context.Context, unitID int) ([]dto.TopicResponse, error) {
	if _, err := s.repo.Unit.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("get unit failed", zap.Int("unit_id", unitID), zap.Error(err))
		return nil, err
	}

	topics, err := s.repo.Topic.ListByUnit(ctx, unitID, false)
	if err != nil {
		s.logger.Error("list topics failed", zap.Int("unit_id", unitID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TopicResponse, 0, len(topics))
	for i := range topics {
		result = append(result, *toTopicResponse(&topics[i]))
	}
	return result, nil
}

func toTopicResponse(t *model.Topic) *dto.TopicResponse {
	return &dto.TopicResponse{
		TopicID:   t.TopicID,
		UnitID:    t.UnitID,
		Name:      t.Name,
		IsDeleted: t.IsDeleted,
	}
}
