package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
)

var (
	ErrUserNotFound        = pkgerrors.NotFound("Unable to find user.")
	ErrUsernameTaken       = pkgerrors.Conflict("Username already exists.")
	ErrUserSelfDelete      = pkgerrors.Forbidden("You cannot delete your own account.")
	ErrUserUpdateForbidden = pkgerrors.Forbidden("You can only change your own account until you have set a password.")
)

// UserService manages staff accounts.
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id int) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	// Update sets a new username and password and clears FirstTime.
	Update(ctx context.Context, req *dto.UpdateUserRequest, callerID int) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int, callerID int) error
	// Verify reports whether the token subject still exists under the same
	// username and has completed the first login.
	Verify(ctx context.Context, userID int, username string) (bool, error)
	// EnsureAdmin creates user "admin" when there are no users at all.
	EnsureAdmin(ctx context.Context) (bool, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.checkUsername(ctx, req.Username, 0); err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		password = req.Username
	}
	hash, err := hashPassword(password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:  req.Username,
		Password:  hash,
		FirstTime: true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *userService) GetByID(ctx context.Context, id int) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, req *dto.UpdateUserRequest, callerID int) (*dto.UserResponse, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.FirstTime && req.UserID != callerID {
		return nil, ErrUserUpdateForbidden
	}

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, req.Username, user.UserID); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user.Username = req.Username
	user.Password = hash
	user.FirstTime = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.Int("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id int, callerID int) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.Int("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Verify / EnsureAdmin ──────────────────────

func (s *userService) Verify(ctx context.Context, userID int, username string) (bool, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("verify user failed", zap.Int("user_id", userID), zap.Error(err))
		return false, err
	}
	return user.Username == username && !user.FirstTime, nil
}

func (s *userService) EnsureAdmin(ctx context.Context) (bool, error) {
	n, err := s.repo.User.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	if _, err := s.Create(ctx, &dto.CreateUserRequest{Username: "admin"}); err != nil {
		return false, err
	}
	s.logger.Warn("created bootstrap user admin, change its password on first login")
	return true, nil
}

// ── helpers ──

// getUser maps a missing row to ErrUserNotFound.
func (s *userService) getUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkUsername rejects a username held by a user other than selfID.
func (s *userService) checkUsername(ctx context.Context, username string, selfID int) error {
	existing, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("check username failed", zap.Error(err))
		return err
	}
	if existing.UserID != selfID {
		return ErrUsernameTaken
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		FirstTime: u.FirstTime,
	}
}
