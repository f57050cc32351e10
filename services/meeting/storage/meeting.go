package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meetscribe/backend/pkg/logger"
	"github.com/meetscribe/backend/services/meeting/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	id            SERIAL PRIMARY KEY,
	title         TEXT NOT NULL,
	date          TEXT NOT NULL,
	language      TEXT NOT NULL,
	audio_path    TEXT NOT NULL,
	transcript    TEXT,
	summary       TEXT,
	action_items  JSONB,
	decisions     JSONB,
	participants  JSONB,
	duration      TEXT,
	status        TEXT NOT NULL,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ
)`

func (s *storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create meetings table: %w", err)
	}
	return nil
}

const meetingColumns = `id, title, date, language, audio_path, transcript, summary,
	action_items, decisions, participants, duration, status, error_message,
	created_at, updated_at`

func (s *storage) CreateMeeting(ctx context.Context, m *entity.Meeting) (*entity.Meeting, error) {
	log := logger.FromContext(ctx)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO meetings (title, date, language, audio_path, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+meetingColumns,
		m.Title, m.Date, m.Language, m.AudioPath, m.Status,
	)

	created, err := scanMeeting(row)
	if err != nil {
		log.Error("failed to create meeting", "error", err)
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	log.Debug("created meeting", "id", created.ID)

	return created, nil
}

func (s *storage) ListMeetings(ctx context.Context) ([]*entity.Meeting, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		ORDER BY date DESC, id DESC`)
	if err != nil {
		log.Error("failed to list meetings", "error", err)
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*entity.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return meetings, nil
}

func (s *storage) GetMeeting(ctx context.Context, id int) (*entity.Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE id = $1`, id)

	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meeting %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting %d: %w", id, err)
	}

	return m, nil
}

func (s *storage) DeleteMeeting(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("meeting %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (s *storage) CompleteMeeting(ctx context.Context, id int, transcript string, result *entity.SummaryResult) error {
	log := logger.FromContext(ctx)

	// Completed meetings carry empty arrays, never JSON null.
	items, err := marshalJSON(orEmpty(result.ActionItems))
	if err != nil {
		return fmt.Errorf("failed to encode action items: %w", err)
	}
	decisions, err := marshalJSON(orEmpty(result.Decisions))
	if err != nil {
		return fmt.Errorf("failed to encode decisions: %w", err)
	}
	participants, err := marshalJSON(orEmpty(result.Participants))
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE meetings
		SET transcript = $2,
		    summary = $3,
		    action_items = $4,
		    decisions = $5,
		    participants = $6,
		    duration = $7,
		    status = $8,
		    error_message = NULL,
		    updated_at = now()
		WHERE id = $1`,
		id, transcript, result.Summary, items, decisions, participants,
		result.Duration, entity.StatusCompleted,
	)
	if err != nil {
		log.Error("failed to complete meeting", "id", id, "error", err)
		return fmt.Errorf("failed to complete meeting %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete meeting %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("meeting %d: %w", id, entity.ErrNotFound)
	}
	log.Debug("completed meeting", "id", id)

	return nil
}

func (s *storage) FailMeeting(ctx context.Context, id int, message string) error {
	log := logger.FromContext(ctx)

	_, err := s.db.ExecContext(ctx, `
		UPDATE meetings
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1`,
		id, entity.StatusFailed, message,
	)
	if err != nil {
		log.Error("failed to mark meeting as failed", "id", id, "error", err)
		return fmt.Errorf("failed to mark meeting %d as failed: %w", id, err)
	}

	return nil
}

func (s *storage) FailAllProcessing(ctx context.Context, message string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE meetings
		SET status = $1, error_message = $2, updated_at = now()
		WHERE status = $3`,
		entity.StatusFailed, message, entity.StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize stale meetings: %w", err)
	}

	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*entity.Meeting, error) {
	var (
		m            entity.Meeting
		transcript   sql.NullString
		summary      sql.NullString
		items        []byte
		decisions    []byte
		participants []byte
		duration     sql.NullString
		errMessage   sql.NullString
		updatedAt    sql.NullTime
	)

	err := row.Scan(
		&m.ID, &m.Title, &m.Date, &m.Language, &m.AudioPath,
		&transcript, &summary, &items, &decisions, &participants,
		&duration, &m.Status, &errMessage, &m.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Transcript = nullableString(transcript)
	m.Summary = nullableString(summary)
	m.Duration = nullableString(duration)
	m.ErrorMessage = nullableString(errMessage)
	if updatedAt.Valid {
		m.UpdatedAt = &updatedAt.Time
	}

	if err := unmarshalJSON(items, &m.ActionItems); err != nil {
		return nil, fmt.Errorf("failed to decode action items: %w", err)
	}
	if err := unmarshalJSON(decisions, &m.Decisions); err != nil {
		return nil, fmt.Errorf("failed to decode decisions: %w", err)
	}
	if err := unmarshalJSON(participants, &m.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}

	return &m, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
