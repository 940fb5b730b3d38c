package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
)

var (
	ErrUnitNameTaken = pkgerrors.Conflict("A unit with this name already exists on the helpdesk.")
	ErrUnitCodeTaken = pkgerrors.Conflict("A unit with this code already exists on the helpdesk.")
)

// UnitService manages units and their topic lists.
type UnitService interface {
	// Save adds a unit to a helpdesk when req.UnitID is 0, otherwise updates
	// it. Topics not listed are soft deleted, listed ones restored or added.
	Save(ctx context.Context, req *dto.SaveUnitRequest) (*dto.UnitResponse, error)
	GetByID(ctx context.Context, id int) (*dto.UnitResponse, error)
	ListByHelpdesk(ctx context.Context, helpdeskID int, activeOnly bool) ([]dto.UnitResponse, error)
	Delete(ctx context.Context, id int) error
	// Import adds one unit per spreadsheet row. Rows that fail are
	// reported and skipped.
	Import(ctx context.Context, helpdeskID int, reader io.Reader) (*dto.ImportUnitsResponse, error)
}

type unitService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUnitService creates a UnitService.
func NewUnitService(repo *repository.Repository, logger *zap.Logger) UnitService {
	return &unitService{repo: repo, logger: logger}
}

func (s *unitService) Save(ctx context.Context, req *dto.SaveUnitRequest) (*dto.UnitResponse, error) {
	names := normalizeTopicNames(req.Topics)

	var unitID int
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Helpdesk.GetByID(ctx, req.HelpdeskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHelpdeskNotFound
			}
			return err
		}

		siblings, err := tx.Unit.ListByHelpdesk(ctx, req.HelpdeskID, false)
		if err != nil {
			return err
		}
		for _, u := range siblings {
			if u.UnitID == req.UnitID {
				continue
			}
			if strings.EqualFold(u.Name, req.Name) {
				return ErrUnitNameTaken
			}
			if strings.EqualFold(u.Code, req.Code) {
				return ErrUnitCodeTaken
			}
		}

		if req.UnitID == 0 {
			unitID, err = s.create(ctx, tx, req, names)
			return err
		}
		unitID = req.UnitID
		return s.update(ctx, tx, req, names)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("save unit failed", zap.Int("unit_id", req.UnitID), zap.Error(err))
		}
		return nil, err
	}

	return s.GetByID(ctx, unitID)
}

// create inserts the unit, links it to the helpdesk and adds its topics.
func (s *unitService) create(ctx context.Context, tx *repository.Repository, req *dto.SaveUnitRequest, names []string) (int, error) {
	unit := &model.Unit{
		Code:      req.Code,
		Name:      req.Name,
		Deletable: model.Deletable{IsDeleted: req.IsDeleted},
	}
	if err := tx.Unit.Create(ctx, unit); err != nil {
		return 0, err
	}
	if err := tx.Helpdesk.LinkUnit(ctx, req.HelpdeskID, unit.UnitID); err != nil {
		return 0, err
	}
	for _, name := range names {
		if err := tx.Topic.Create(ctx, &model.Topic{UnitID: unit.UnitID, Name: name}); err != nil {
			return 0, err
		}
	}
	return unit.UnitID, nil
}

// update rewrites the unit and reconciles its topics with names.
func (s *unitService) update(ctx context.Context, tx *repository.Repository, req *dto.SaveUnitRequest, names []string) error {
	unit, err := tx.Unit.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return err
	}

	unit.Code = req.Code
	unit.Name = req.Name
	unit.IsDeleted = req.IsDeleted
	if err := tx.Unit.Update(ctx, unit); err != nil {
		return err
	}

	existing, err := tx.Topic.ListByUnit(ctx, unit.UnitID, true)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = true
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		t := &existing[i]
		key := strings.ToLower(t.Name)
		keep := wanted[key] && !seen[key]
		seen[key] = seen[key] || keep
		if t.IsDeleted == !keep {
			continue
		}
		t.IsDeleted = !keep
		if err := tx.Topic.Update(ctx, t); err != nil {
			return err
		}
	}

	for _, name := range names {
		if seen[strings.ToLower(name)] {
			continue
		}
		if err := tx.Topic.Create(ctx, &model.Topic{UnitID: unit.UnitID, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func (s *unitService) GetByID(ctx context.Context, id int) (*dto.UnitResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("get unit failed", zap.Int("unit_id", id), zap.Error(err))
		return nil, err
	}

	topics, err := s.repo.Topic.ListByUnit(ctx, id, false)
	if err != nil {
		s.logger.Error("list unit topics failed", zap.Int("unit_id", id), zap.Error(err))
		return nil, err
	}
	unit.Topics = topics

	return toUnitResponse(unit), nil
}

func (s *unitService) ListByHelpdesk(ctx context.Context, helpdeskID int, activeOnly bool) ([]dto.UnitResponse, error) {
	units, err := s.repo.Unit.ListByHelpdesk(ctx, helpdeskID, activeOnly)
	if err != nil {
		s.logger.Error("list units failed", zap.Int("helpdesk_id", helpdeskID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		result = append(result, *toUnitResponse(&units[i]))
	}
	return result, nil
}

func (s *unitService) Delete(ctx context.Context, id int) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Unit.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnitNotFound
			}
			return err
		}
		if err := tx.Unit.SoftDelete(ctx, id); err != nil {
			return err
		}
		return tx.Topic.SoftDeleteByUnit(ctx, id)
	})
	if err != nil && !isBusinessError(err) {
		s.logger.Error("delete unit failed", zap.Int("unit_id", id), zap.Error(err))
	}
	return err
}

// normalizeTopicNames trims, drops blanks and duplicates (case
// insensitive) and makes sure the catch-all topic is present.
func normalizeTopicNames(in []string) []string {
	seen := make(map[string]bool, len(in)+1)
	out := make([]string, 0, len(in)+1)
	all := append(append(make([]string, 0, len(in)+1), in...), model.OtherTopicName)
	for _, n := range all {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func toUnitResponse(u *model.Unit) *dto.UnitResponse {
	resp := &dto.UnitResponse{
		UnitID:    u.UnitID,
		Code:      u.Code,
		Name:      u.Name,
		IsDeleted: u.IsDeleted,
		Topics:    make([]dto.TopicResponse, 0, len(u.Topics)),
	}
	for i := range u.Topics {
		resp.Topics = append(resp.Topics, *toTopicResponse(&u.Topics[i]))
	}
	return resp
}
