package storage

import (
	"context"
	"database/sql"

	"github.com/meetscribe/backend/services/meeting/entity"
)

type storage struct {
	db *sql.DB
}

type Storage interface {
	EnsureSchema(ctx context.Context) error

	CreateMeeting(ctx context.Context, m *entity.Meeting) (*entity.Meeting, error)
	ListMeetings(ctx context.Context) ([]*entity.Meeting, error)
	GetMeeting(ctx context.Context, id int) (*entity.Meeting, error)
	DeleteMeeting(ctx context.Context, id int) error

	// CompleteMeeting writes all derived fields and the completed status in a
	// single statement so a reader never observes a partial result.
	CompleteMeeting(ctx context.Context, id int, transcript string, result *entity.SummaryResult) error
	FailMeeting(ctx context.Context, id int, message string) error

	// FailAllProcessing finalizes records left in processing by a previous
	// run and returns how many were touched.
	FailAllProcessing(ctx context.Context, message string) (int64, error)
}

func New(db *sql.DB) Storage {
	return &storage{
		db: db,
	}
}
