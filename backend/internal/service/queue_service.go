package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
	"helpdesk-system/backend/pkg/metrics"
)

var (
	ErrQueueItemNotFound     = pkgerrors.NotFound("Unable to find queue item.")
	ErrTopicNotFound         = pkgerrors.NotFound("Unable to find topic.")
	ErrQueueCheckInNotFound  = pkgerrors.NotFound("Check in not in database.")
	ErrQueueStatusRequired   = pkgerrors.Validation("Exactly one of time helped or time removed must be given.")
	ErrQueueStatusAlreadySet = pkgerrors.Conflict("The queue item already has this status.")
	ErrQueueItemRemoved      = pkgerrors.Conflict("The queue item has already been removed.")
	ErrQueueTimeBeforeAdded  = pkgerrors.Validation("The status time cannot be before the item was added.")
)

// QueueService manages the per-topic help queue.
type QueueService interface {
	Add(ctx context.Context, req *dto.AddQueueItemRequest) (*dto.AddQueueItemResponse, error)
	Update(ctx context.Context, req *dto.UpdateQueueItemRequest) (*dto.QueueItemResponse, error)
	// UpdateStatus moves an item pending → helped → removed. Each timestamp
	// is set at most once and removed is terminal.
	UpdateStatus(ctx context.Context, req *dto.UpdateQueueItemStatusRequest) (*dto.QueueItemResponse, error)
	ListByHelpdesk(ctx context.Context, helpdeskID int) ([]dto.QueueItemResponse, error)
	ListByCheckIn(ctx context.Context, checkInID int) ([]dto.QueueItemResponse, error)
}

type queueService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQueueService creates a QueueService.
func NewQueueService(repo *repository.Repository, logger *zap.Logger) QueueService {
	return &queueService{repo: repo, logger: logger}
}

// ────────────────────── Add ──────────────────────

func (s *queueService) Add(ctx context.Context, req *dto.AddQueueItemRequest) (*dto.AddQueueItemResponse, error) {
	if req.StudentID == nil && req.Nickname == "" {
		return nil, ErrNicknameRequired
	}

	var result dto.AddQueueItemResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := resolveStudent(ctx, tx, req.StudentID, req.Nickname, req.SID)
		if err != nil {
			return err
		}

		if _, err := tx.Topic.GetByID(ctx, req.TopicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTopicNotFound
			}
			return err
		}

		if req.CheckInID != nil {
			if _, err := tx.CheckIn.GetByID(ctx, *req.CheckInID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrQueueCheckInNotFound
				}
				return err
			}
		}

		item := &model.QueueItem{
			StudentID:   student.StudentID,
			TopicID:     req.TopicID,
			Description: req.Description,
			TimeAdded:   timeNow(),
		}
		if err := tx.Queue.Create(ctx, item); err != nil {
			return err
		}

		if req.CheckInID != nil {
			if err := tx.CheckIn.LinkQueueItem(ctx, *req.CheckInID, item.ItemID); err != nil {
				return err
			}
		}

		result = dto.AddQueueItemResponse{ItemID: item.ItemID, StudentID: student.StudentID}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("add to queue failed", zap.Int("topic_id", req.TopicID), zap.Error(err))
		}
		return nil, err
	}

	metrics.QueueItemsAdded.Inc()
	s.logger.Info("queue item added",
		zap.Int("item_id", result.ItemID),
		zap.Int("student_id", result.StudentID),
		zap.Int("topic_id", req.TopicID),
	)
	return &result, nil
}

// ────────────────────── Update ──────────────────────

func (s *queueService) Update(ctx context.Context, req *dto.UpdateQueueItemRequest) (*dto.QueueItemResponse, error) {
	item, err := s.getItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Topic.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		s.logger.Error("get topic failed", zap.Int("topic_id", req.TopicID), zap.Error(err))
		return nil, err
	}

	n, err := s.repo.Queue.UpdateDetails(ctx, req.ItemID, req.TopicID, req.Description)
	if err != nil {
		s.logger.Error("update queue item failed", zap.Int("item_id", req.ItemID), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrQueueItemNotFound
	}

	// re-read so timestamps stamped meanwhile are reported as stored
	if item, err = s.getItem(ctx, req.ItemID); err != nil {
		return nil, err
	}
	return toQueueItemResponse(item), nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *queueService) UpdateStatus(ctx context.Context, req *dto.UpdateQueueItemStatusRequest) (*dto.QueueItemResponse, error) {
	if (req.TimeHelped == nil) == (req.TimeRemoved == nil) {
		return nil, ErrQueueStatusRequired
	}

	item, err := s.getItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	status := model.QueueStatusRemoved
	at := req.TimeRemoved
	if req.TimeHelped != nil {
		status, at = model.QueueStatusHelped, req.TimeHelped
	}
	if err := checkTransition(item, status); err != nil {
		return nil, err
	}
	if at.Before(item.TimeAdded) {
		return nil, ErrQueueTimeBeforeAdded
	}

	t := at.UTC()
	var n int64
	if status == model.QueueStatusHelped {
		n, err = s.repo.Queue.MarkHelped(ctx, req.ItemID, t)
	} else {
		n, err = s.repo.Queue.MarkRemoved(ctx, req.ItemID, t)
	}
	if err != nil {
		s.logger.Error("update queue item status failed", zap.Int("item_id", req.ItemID), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		// the guard lost to a concurrent write; report the stored state
		current, err := s.getItem(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if err := checkTransition(current, status); err != nil {
			return nil, err
		}
		return nil, ErrQueueStatusAlreadySet
	}

	if status == model.QueueStatusHelped {
		item.TimeHelped = &t
	} else {
		item.TimeRemoved = &t
	}
	metrics.QueueTransitions.WithLabelValues(string(status)).Inc()
	return toQueueItemResponse(item), nil
}

// ────────────────────── List ──────────────────────

func (s *queueService) ListByHelpdesk(ctx context.Context, helpdeskID int) ([]dto.QueueItemResponse, error) {
	unitIDs, err := s.repo.Helpdesk.ListUnitIDs(ctx, helpdeskID)
	if err != nil {
		s.logger.Error("list helpdesk units failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	topicIDs, err := s.repo.Topic.ListIDsByUnits(ctx, unitIDs)
	if err != nil {
		s.logger.Error("list unit topics failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	items, err := s.repo.Queue.ListActiveByTopics(ctx, topicIDs)
	if err != nil {
		s.logger.Error("list queue failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	return toQueueItemResponses(items), nil
}

func (s *queueService) ListByCheckIn(ctx context.Context, checkInID int) ([]dto.QueueItemResponse, error) {
	if _, err := s.repo.CheckIn.GetByID(ctx, checkInID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		s.logger.Error("get check in failed", zap.Int("check_in_id", checkInID), zap.Error(err))
		return nil, err
	}

	items, err := s.repo.Queue.ListByCheckIn(ctx, checkInID, true)
	if err != nil {
		s.logger.Error("list check in queue items failed", zap.Int("check_in_id", checkInID), zap.Error(err))
		return nil, err
	}

	return toQueueItemResponses(items), nil
}

// ── helpers ──

// getItem maps a missing row to ErrQueueItemNotFound.
func (s *queueService) getItem(ctx context.Context, id int) (*model.QueueItem, error) {
	item, err := s.repo.Queue.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQueueItemNotFound
		}
		s.logger.Error("get queue item failed", zap.Int("item_id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

// checkTransition reports why item cannot move to status, if it cannot.
func checkTransition(item *model.QueueItem, status model.QueueStatus) error {
	switch {
	case item.TimeRemoved != nil && status == model.QueueStatusHelped:
		return ErrQueueItemRemoved
	case item.TimeRemoved != nil:
		return ErrQueueStatusAlreadySet
	case item.TimeHelped != nil && status == model.QueueStatusHelped:
		return ErrQueueStatusAlreadySet
	}
	return nil
}

func toQueueItemResponses(items []model.QueueItem) []dto.QueueItemResponse {
	result := make([]dto.QueueItemResponse, 0, len(items))
	for i := range items {
		result = append(result, *toQueueItemResponse(&items[i]))
	}
	return result
}

func toQueueItemResponse(q *model.QueueItem) *dto.QueueItemResponse {
	resp := &dto.QueueItemResponse{
		ItemID:      q.ItemID,
		StudentID:   q.StudentID,
		TopicID:     q.TopicID,
		Description: q.Description,
		Status:      string(q.Status()),
		TimeAdded:   q.TimeAdded,
		TimeHelped:  q.TimeHelped,
		TimeRemoved: q.TimeRemoved,
	}
	if q.Student != nil {
		resp.Nickname = q.Student.NickName
	}
	if q.Topic != nil {
		resp.Topic = q.Topic.Name
		if q.Topic.Unit != nil {
			resp.Unit = q.Topic.Unit.Code
		}
	}
	return resp
}
