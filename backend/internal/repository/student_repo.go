package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
)

// StudentRepository is data access for nicknames.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Nickname) error
	GetByID(ctx context.Context, id int) (*model.Nickname, error)
	GetByNickname(ctx context.Context, nickname string) (*model.Nickname, error)
	GetBySID(ctx context.Context, sid string) (*model.Nickname, error)
	List(ctx context.Context) ([]model.Nickname, error)
	Update(ctx context.Context, student *model.Nickname) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Nickname) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int) (*model.Nickname, error) {
	var student model.Nickname
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByNickname(ctx context.Context, nickname string) (*model.Nickname, error) {
	var student model.Nickname
	err := r.db.WithContext(ctx).
		Where("nick_name = ?", nickname).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetBySID(ctx context.Context, sid string) (*model.Nickname, error) {
	var student model.Nickname
	err := r.db.WithContext(ctx).
		Where("sid = ?", sid).
		Order("student_id ASC").
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Nickname, error) {
	var students []model.Nickname
	err := r.db.WithContext(ctx).
		Order("nick_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Nickname) error {
	return r.db.WithContext(ctx).Save(student).Error
}
