package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"helpdesk-system/backend/config"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
	"helpdesk-system/backend/pkg/jwt"
)

// TokenBlacklist revokes tokens before they expire. Implemented by the
// redis client; optional.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service aggregates every business service.
type Service struct {
	Helpdesk HelpdeskService
	Unit     UnitService
	Topic    TopicService
	Student  StudentService
	CheckIn  CheckInService
	Queue    QueueService
	User     UserService
	Auth     AuthService
	Export   ExportService
}

// NewService wires the services. blacklist may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Helpdesk: NewHelpdeskService(repo, logger),
		Unit:     NewUnitService(repo, logger),
		Topic:    NewTopicService(repo, logger),
		Student:  NewStudentService(repo, logger),
		CheckIn:  NewCheckInService(repo, logger),
		Queue:    NewQueueService(repo, logger),
		User:     NewUserService(repo, logger),
		Auth:     NewAuthService(repo, jwtMgr, blacklist, logger),
		Export:   NewExportService(repo, cfg.Export.Dir, logger),
	}
}

// timeNow is the clock every service stamps rows with.
var timeNow = func() time.Time { return time.Now().UTC() }

// isBusinessError reports whether err is an expected, classified failure
// that should not be logged as an error.
func isBusinessError(err error) bool {
	return pkgerrors.Kind(err) != nil
}
