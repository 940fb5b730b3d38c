package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	"helpdesk-system/backend/pkg/metrics"
)

// HelpdeskService manages helpdesks, their timespans and the end of day
// clear that closes everything still open on a helpdesk.
type HelpdeskService interface {
	Create(ctx context.Context, req *dto.CreateHelpdeskRequest) (*dto.HelpdeskResponse, error)
	GetByID(ctx context.Context, id int) (*dto.HelpdeskResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.HelpdeskResponse, error)
	Update(ctx context.Context, req *dto.UpdateHelpdeskRequest) (*dto.HelpdeskResponse, error)
	Delete(ctx context.Context, id int) error

	// ForceCheckoutAll closes every open check-in and removes every pending
	// queue item of the helpdesk's units in one transaction. Running it
	// again changes nothing.
	ForceCheckoutAll(ctx context.Context, helpdeskID int) (*dto.ForceCheckoutResponse, error)

	CreateTimespan(ctx context.Context, req *dto.CreateTimespanRequest) (*dto.TimespanResponse, error)
	GetTimespan(ctx context.Context, id int) (*dto.TimespanResponse, error)
	ListTimespans(ctx context.Context) ([]dto.TimespanResponse, error)
	UpdateTimespan(ctx context.Context, req *dto.UpdateTimespanRequest) (*dto.TimespanResponse, error)
	DeleteTimespan(ctx context.Context, id int) error
	// TimespanCalendar renders the helpdesk's timespans as iCalendar text.
	TimespanCalendar(ctx context.Context, helpdeskID int) (string, error)
}

type helpdeskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHelpdeskService creates a HelpdeskService.
func NewHelpdeskService(repo *repository.Repository, logger *zap.Logger) HelpdeskService {
	return &helpdeskService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *helpdeskService) Create(ctx context.Context, req *dto.CreateHelpdeskRequest) (*dto.HelpdeskResponse, error) {
	h := &model.Helpdesk{
		Name:       req.Name,
		HasCheckIn: req.HasCheckIn,
		HasQueue:   req.HasQueue,
	}
	if err := s.repo.Helpdesk.Create(ctx, h); err != nil {
		s.logger.Error("create helpdesk failed", zap.Error(err))
		return nil, err
	}
	return toHelpdeskResponse(h), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *helpdeskService) GetByID(ctx context.Context, id int) (*dto.HelpdeskResponse, error) {
	h, err := s.getHelpdesk(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toHelpdeskResponse(h), nil
}

func (s *helpdeskService) List(ctx context.Context, activeOnly bool) ([]dto.HelpdeskResponse, error) {
	helpdesks, err := s.repo.Helpdesk.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("list helpdesks failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.HelpdeskResponse, 0, len(helpdesks))
	for i := range helpdesks {
		result = append(result, *toHelpdeskResponse(&helpdesks[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *helpdeskService) Update(ctx context.Context, req *dto.UpdateHelpdeskRequest) (*dto.HelpdeskResponse, error) {
	h, err := s.getHelpdesk(ctx, s.repo, req.HelpdeskID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.HasCheckIn != nil {
		h.HasCheckIn = *req.HasCheckIn
	}
	if req.HasQueue != nil {
		h.HasQueue = *req.HasQueue
	}
	if req.IsDeleted != nil {
		h.IsDeleted = *req.IsDeleted
	}

	if err := s.repo.Helpdesk.Update(ctx, h); err != nil {
		s.logger.Error("update helpdesk failed", zap.Int("helpdesk_id", req.HelpdeskID), zap.Error(err))
		return nil, err
	}
	return toHelpdeskResponse(h), nil
}

func (s *helpdeskService) Delete(ctx context.Context, id int) error {
	if _, err := s.getHelpdesk(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.Helpdesk.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete helpdesk failed", zap.Int("helpdesk_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ForceCheckoutAll ──────────────────────

func (s *helpdeskService) ForceCheckoutAll(ctx context.Context, helpdeskID int) (*dto.ForceCheckoutResponse, error) {
	result := dto.ForceCheckoutResponse{HelpdeskID: helpdeskID}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := s.getHelpdesk(ctx, tx, helpdeskID); err != nil {
			return err
		}

		unitIDs, err := tx.Helpdesk.ListUnitIDs(ctx, helpdeskID)
		if err != nil {
			return err
		}
		if len(unitIDs) == 0 {
			return nil
		}

		now := timeNow()
		closed, err := tx.CheckIn.ForceCloseOpenByUnits(ctx, unitIDs, now)
		if err != nil {
			return err
		}

		topicIDs, err := tx.Topic.ListIDsByUnits(ctx, unitIDs)
		if err != nil {
			return err
		}
		removed, err := tx.Queue.RemovePendingByTopics(ctx, topicIDs, now)
		if err != nil {
			return err
		}

		result.CheckInsClosed = closed
		result.ItemsRemoved = removed
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("force checkout failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		}
		return nil, err
	}

	metrics.ForcedCheckIns.Add(float64(result.CheckInsClosed))
	metrics.ForcedQueueItems.Add(float64(result.ItemsRemoved))
	s.logger.Info("helpdesk cleared",
		zap.Int("helpdesk_id", helpdeskID),
		zap.Int64("check_ins_closed", result.CheckInsClosed),
		zap.Int64("items_removed", result.ItemsRemoved),
	)
	return &result, nil
}

// ── helpers ──

// getHelpdesk reads through repo so it can run inside a transaction.
func (s *helpdeskService) getHelpdesk(ctx context.Context, repo *repository.Repository, id int) (*model.Helpdesk, error) {
	h, err := repo.Helpdesk.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHelpdeskNotFound
		}
		s.logger.Error("get helpdesk failed", zap.Int("helpdesk_id", id), zap.Error(err))
		return nil, err
	}
	return h, nil
}

func toHelpdeskResponse(h *model.Helpdesk) *dto.HelpdeskResponse {
	return &dto.HelpdeskResponse{
		HelpdeskID: h.HelpdeskID,
		Name:       h.Name,
		HasCheckIn: h.HasCheckIn,
		HasQueue:   h.HasQueue,
		IsDeleted:  h.IsDeleted,
	}
}
