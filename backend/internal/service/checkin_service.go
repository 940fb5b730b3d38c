package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
	"helpdesk-system/backend/pkg/metrics"
)

var (
	ErrCheckInNotFound   = pkgerrors.NotFound("Unable to find check in.")
	ErrAlreadyCheckedOut = pkgerrors.Conflict("This check in has already been checked out.")
	ErrUnitNotFound      = pkgerrors.NotFound("Unable to find unit.")
	ErrHelpdeskNotFound  = pkgerrors.NotFound("Unable to find helpdesk.")
)

// CheckInService records students arriving at and leaving a unit.
type CheckInService interface {
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	// CheckOut closes the check-in and removes every queue item still
	// pending under it, atomically.
	CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error)
	ListByHelpdesk(ctx context.Context, helpdeskID int) ([]dto.OpenCheckInResponse, error)
}

type checkInService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCheckInService creates a CheckInService.
func NewCheckInService(repo *repository.Repository, logger *zap.Logger) CheckInService {
	return &checkInService{repo: repo, logger: logger}
}

// ────────────────────── CheckIn ──────────────────────

func (s *checkInService) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	if req.StudentID == nil && req.Nickname == "" {
		return nil, ErrNicknameRequired
	}

	var result dto.CheckInResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Unit.GetByID(ctx, req.UnitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnitNotFound
			}
			return err
		}

		student, err := resolveStudent(ctx, tx, req.StudentID, req.Nickname, req.SID)
		if err != nil {
			return err
		}

		checkIn := &model.CheckIn{
			StudentID:   student.StudentID,
			UnitID:      req.UnitID,
			CheckInTime: timeNow(),
		}
		if err := tx.CheckIn.Create(ctx, checkIn); err != nil {
			return err
		}

		result = dto.CheckInResponse{StudentID: student.StudentID, CheckInID: checkIn.CheckInID}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("check in failed", zap.Int("unit_id", req.UnitID), zap.Error(err))
		}
		return nil, err
	}

	metrics.CheckInsTotal.Inc()
	s.logger.Info("student checked in",
		zap.Int("check_in_id", result.CheckInID),
		zap.Int("student_id", result.StudentID),
		zap.Int("unit_id", req.UnitID),
	)
	return &result, nil
}

// ────────────────────── CheckOut ──────────────────────

func (s *checkInService) CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	var result dto.CheckOutResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		checkIn, err := tx.CheckIn.GetByID(ctx, req.CheckInID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckInNotFound
			}
			return err
		}
		if !checkIn.IsOpen() {
			return ErrAlreadyCheckedOut
		}

		now := timeNow()
		if now.Before(checkIn.CheckInTime) {
			now = checkIn.CheckInTime
		}
		closed, err := tx.CheckIn.Close(ctx, checkIn.CheckInID, now, req.ForcedCheckout)
		if err != nil {
			return err
		}
		// closed by a concurrent checkout or clear since the read
		if closed == 0 {
			return ErrAlreadyCheckedOut
		}

		removed, err := tx.Queue.RemovePendingByCheckIn(ctx, checkIn.CheckInID, now)
		if err != nil {
			return err
		}

		result = dto.CheckOutResponse{
			CheckInID:    checkIn.CheckInID,
			CheckoutTime: now,
			ItemsRemoved: removed,
		}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("check out failed", zap.Int("check_in_id", req.CheckInID), zap.Error(err))
		}
		return nil, err
	}

	forced := req.ForcedCheckout != nil && *req.ForcedCheckout
	metrics.CheckOutsTotal.WithLabelValues(strconv.FormatBool(forced)).Inc()
	s.logger.Info("student checked out",
		zap.Int("check_in_id", result.CheckInID),
		zap.Int64("items_removed", result.ItemsRemoved),
		zap.Bool("forced", forced),
	)
	return &result, nil
}

// ────────────────────── ListByHelpdesk ──────────────────────

func (s *checkInService) ListByHelpdesk(ctx context.Context, helpdeskID int) ([]dto.OpenCheckInResponse, error) {
	unitIDs, err := s.repo.Helpdesk.ListUnitIDs(ctx, helpdeskID)
	if err != nil {
		s.logger.Error("list helpdesk units failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	checkIns, err := s.repo.CheckIn.ListOpenByUnits(ctx, unitIDs)
	if err != nil {
		s.logger.Error("list open check ins failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.OpenCheckInResponse, 0, len(checkIns))
	for i := range checkIns {
		c := &checkIns[i]
		item := dto.OpenCheckInResponse{
			CheckInID:   c.CheckInID,
			UnitID:      c.UnitID,
			StudentID:   c.StudentID,
			CheckInTime: c.CheckInTime,
		}
		if c.Student != nil {
			item.Nickname = c.Student.NickName
		}
		result = append(result, item)
	}
	return result, nil
}
