package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
	pkgerrors "helpdesk-system/backend/pkg/errors"
)

var (
	ErrStudentNotFound      = pkgerrors.NotFound("Unable to find student.")
	ErrNicknameTaken        = pkgerrors.Conflict("Nickname already taken.")
	ErrNicknameRequired     = pkgerrors.Validation("A nickname is required when no student id is given.")
	ErrNicknameOwnedByOther = pkgerrors.Conflict("This nickname is registered to another student.")
	ErrNicknameExhausted    = errors.New("could not generate an unused nickname")
)

// NicknameOutcome is the verdict of a nickname validation.
type NicknameOutcome int

const (
	// NicknameAvailable: neither the nickname nor the SID is registered.
	NicknameAvailable NicknameOutcome = iota
	// NicknameRegistered: the nickname or SID belongs to an existing student
	// the caller may reuse.
	NicknameRegistered
	// NicknameUnknown: the nickname is not registered and no SID was given.
	NicknameUnknown
)

// NicknameValidation is the result of StudentService.Validate.
type NicknameValidation struct {
	Outcome NicknameOutcome
	Student *dto.StudentResponse
}

const generatedNicknameLen = 20

// StudentService manages anonymous student nicknames.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	GetByNickname(ctx context.Context, nickname string) (*dto.StudentResponse, error)
	Add(ctx context.Context, req *dto.AddStudentRequest) (*dto.StudentResponse, error)
	Edit(ctx context.Context, req *dto.EditStudentRequest) (*dto.StudentResponse, error)
	Validate(ctx context.Context, req *dto.ValidateNicknameRequest) (*NicknameValidation, error)
	Generate(ctx context.Context) (string, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService creates a StudentService.
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, nil
}

func (s *studentService) GetByNickname(ctx context.Context, nickname string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student by nickname failed", zap.String("nickname", nickname), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Add(ctx context.Context, req *dto.AddStudentRequest) (*dto.StudentResponse, error) {
	student, err := registerNickname(ctx, s.repo, req.Nickname, req.SID)
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("add student failed", zap.String("nickname", req.Nickname), zap.Error(err))
		}
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Edit(ctx context.Context, req *dto.EditStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.Int("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}

	taken, err := s.repo.Student.GetByNickname(ctx, req.Nickname)
	switch {
	case err == nil && taken.StudentID != student.StudentID:
		return nil, ErrNicknameTaken
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("check nickname failed", zap.Error(err))
		return nil, err
	}

	student.NickName = req.Nickname
	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("update student failed", zap.Int("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Validate(ctx context.Context, req *dto.ValidateNicknameRequest) (*NicknameValidation, error) {
	existing, err := s.repo.Student.GetByNickname(ctx, req.Nickname)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("validate nickname failed", zap.Error(err))
		return nil, err
	}

	if existing != nil {
		if req.SID == "" || existing.SID == req.SID {
			return &NicknameValidation{Outcome: NicknameRegistered, Student: toStudentResponse(existing)}, nil
		}
		return nil, ErrNicknameOwnedByOther
	}

	if req.SID == "" {
		return &NicknameValidation{Outcome: NicknameUnknown}, nil
	}

	bySID, err := s.repo.Student.GetBySID(ctx, req.SID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NicknameValidation{Outcome: NicknameAvailable}, nil
		}
		s.logger.Error("validate nickname failed", zap.Error(err))
		return nil, err
	}
	return &NicknameValidation{Outcome: NicknameRegistered, Student: toStudentResponse(bySID)}, nil
}

func (s *studentService) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		nickname, err := randomAlphaNumeric(generatedNicknameLen)
		if err != nil {
			return "", err
		}

		_, err = s.repo.Student.GetByNickname(ctx, nickname)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nickname, nil
		}
		if err != nil {
			s.logger.Error("generate nickname failed", zap.Error(err))
			return "", err
		}
	}
	return "", ErrNicknameExhausted
}

// ── shared by check-in and queue ──

// resolveStudent returns the existing student for studentID, or registers
// nickname as a new student when studentID is nil.
func resolveStudent(ctx context.Context, repo *repository.Repository, studentID *int, nickname, sid string) (*model.Nickname, error) {
	if studentID != nil {
		student, err := repo.Student.GetByID(ctx, *studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		return student, nil
	}
	return registerNickname(ctx, repo, nickname, sid)
}

// registerNickname creates a student under a nickname not yet taken.
func registerNickname(ctx context.Context, repo *repository.Repository, nickname, sid string) (*model.Nickname, error) {
	if nickname == "" {
		return nil, ErrNicknameRequired
	}

	_, err := repo.Student.GetByNickname(ctx, nickname)
	if err == nil {
		return nil, ErrNicknameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	student := &model.Nickname{NickName: nickname, SID: sid}
	if err := repo.Student.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

const nicknameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomAlphaNumeric draws from crypto/rand.
func randomAlphaNumeric(n int) (string, error) {
	max := big.NewInt(int64(len(nicknameAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = nicknameAlphabet[idx.Int64()]
	}
	return string(b), nil
}

func toStudentResponse(n *model.Nickname) *dto.StudentResponse {
	return &dto.StudentResponse{
		StudentID: n.StudentID,
		Nickname:  n.NickName,
		SID:       n.SID,
	}
}
