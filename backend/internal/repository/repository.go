package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every table repository. A Repository obtained from
// Transaction runs all its repositories against the same transaction.
type Repository struct {
	db *gorm.DB

	Helpdesk HelpdeskRepository
	Timespan TimespanRepository
	Unit     UnitRepository
	Topic    TopicRepository
	Student  StudentRepository
	CheckIn  CheckInRepository
	Queue    QueueRepository
	User     UserRepository
	Export   ExportRepository
}

// NewRepository builds the aggregate on top of db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		Helpdesk: NewHelpdeskRepo(db),
		Timespan: NewTimespanRepo(db),
		Unit:     NewUnitRepo(db),
		Topic:    NewTopicRepo(db),
		Student:  NewStudentRepo(db),
		CheckIn:  NewCheckInRepo(db),
		Queue:    NewQueueRepo(db),
		User:     NewUserRepo(db),
		Export:   NewExportRepo(db),
	}
}

// WithTx returns a Repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn in one database transaction. fn receives a
// Repository bound to the transaction; returning an error or panicking
// rolls everything back.
//
// An aggregate assembled by hand without a db (unit tests) runs fn
// directly against itself.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
