package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	pkgerrors "helpdesk-system/backend/pkg/errors"
)

var (
	ErrTimespanNotFound  = pkgerrors.NotFound("Unable to find timespan.")
	ErrTimespanNameTaken = pkgerrors.Conflict("Timespan name already exists.")
	ErrTimespanRange     = pkgerrors.Validation("Timespan end date must be after its start date.")
)

func (s *helpdeskService) CreateTimespan(ctx context.Context, req *dto.CreateTimespanRequest) (*dto.TimespanResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrTimespanRange
	}
	if _, err := s.getHelpdesk(ctx, s.repo, req.HelpdeskID); err != nil {
		return nil, err
	}
	if err := s.checkTimespanName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	span := &model.Timespan{
		HelpdeskID: req.HelpdeskID,
		Name:       req.Name,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
	}
	if err := s.repo.Timespan.Create(ctx, span); err != nil {
		s.logger.Error("create timespan failed", zap.Error(err))
		return nil, err
	}
	return toTimespanResponse(span), nil
}

func (s *helpdeskService) GetTimespan(ctx context.Context, id int) (*dto.TimespanResponse, error) {
	span, err := s.getTimespan(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTimespanResponse(span), nil
}

func (s *helpdeskService) ListTimespans(ctx context.Context) ([]dto.TimespanResponse, error) {
	spans, err := s.repo.Timespan.List(ctx)
	if err != nil {
		s.logger.Error("list timespans failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimespanResponse, 0, len(spans))
	for i := range spans {
		result = append(result, *toTimespanResponse(&spans[i]))
	}
	return result, nil
}

func (s *helpdeskService) UpdateTimespan(ctx context.Context, req *dto.UpdateTimespanRequest) (*dto.TimespanResponse, error) {
	span, err := s.getTimespan(ctx, req.SpanID)
	if err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrTimespanRange
	}
	if err := s.checkTimespanName(ctx, req.Name, span.SpanID); err != nil {
		return nil, err
	}

	span.Name = req.Name
	span.StartDate = req.StartDate.UTC()
	span.EndDate = req.EndDate.UTC()
	if err := s.repo.Timespan.Update(ctx, span); err != nil {
		s.logger.Error("update timespan failed", zap.Int("span_id", req.SpanID), zap.Error(err))
		return nil, err
	}
	return toTimespanResponse(span), nil
}

func (s *helpdeskService) DeleteTimespan(ctx context.Context, id int) error {
	if _, err := s.getTimespan(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Timespan.Delete(ctx, id); err != nil {
		s.logger.Error("delete timespan failed", zap.Int("span_id", id), zap.Error(err))
		return err
	}
	return nil
}

// checkTimespanName fails when another timespan than selfID uses name.
func (s *helpdeskService) checkTimespanName(ctx context.Context, name string, selfID int) error {
	existing, err := s.repo.Timespan.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("check timespan name failed", zap.Error(err))
		return err
	}
	if existing.SpanID != selfID {
		return ErrTimespanNameTaken
	}
	return nil
}

// getTimespan maps a missing row to ErrTimespanNotFound.
func (s *helpdeskService) getTimespan(ctx context.Context, id int) (*model.Timespan, error) {
	span, err := s.repo.Timespan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimespanNotFound
		}
		s.logger.Error("get timespan failed", zap.Int("span_id", id), zap.Error(err))
		return nil, err
	}
	return span, nil
}

func toTimespanResponse(t *model.Timespan) *dto.TimespanResponse {
	return &dto.TimespanResponse{
		SpanID:     t.SpanID,
		HelpdeskID: t.HelpdeskID,
		Name:       t.Name,
		StartDate:  t.StartDate,
		EndDate:    t.EndDate,
	}
}
