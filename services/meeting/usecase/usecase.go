package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meetscribe/backend/pkg/gen"
	"github.com/meetscribe/backend/pkg/logger"
	"github.com/meetscribe/backend/services/meeting/entity"
	"github.com/meetscribe/backend/services/meeting/storage"
)

// Submitter schedules an asynchronous pipeline run for a freshly created
// meeting.
type Submitter interface {
	Submit(ctx context.Context, meetingID int, audioPath, language string)
}

// Renderer writes a report for a completed meeting to the given path.
type Renderer interface {
	Render(m *entity.Meeting, path string) error
}

type Usecase interface {
	CreateMeeting(ctx context.Context, req *entity.CreateMeetingRequest, audio io.Reader) (*entity.Meeting, error)
	ListMeetings(ctx context.Context) ([]*entity.Meeting, error)
	GetMeeting(ctx context.Context, id int) (*entity.Meeting, error)
	DeleteMeeting(ctx context.Context, id int) error
	ExportMeeting(ctx context.Context, id int, format string) (*entity.Report, error)
	SearchMeeting(ctx context.Context, id int, query string) (*entity.SearchResult, error)
}

type usecase struct {
	storage   storage.Storage
	pipeline  Submitter
	renderers map[string]Renderer
	uploadDir string
	reportDir string
	ids       gen.IDGenerator
}

func New(stg storage.Storage, pipeline Submitter, renderers map[string]Renderer, uploadDir, reportDir string) Usecase {
	return &usecase{
		storage:   stg,
		pipeline:  pipeline,
		renderers: renderers,
		uploadDir: uploadDir,
		reportDir: reportDir,
		ids:       gen.NewID(),
	}
}

func (u *usecase) CreateMeeting(ctx context.Context, req *entity.CreateMeetingRequest, audio io.Reader) (*entity.Meeting, error) {
	log := logger.FromContext(ctx)

	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", entity.ErrInvalidInput)
	}
	if req.Language == "" {
		return nil, fmt.Errorf("primary_language is required: %w", entity.ErrInvalidInput)
	}
	if audio == nil {
		return nil, fmt.Errorf("audio_file is required: %w", entity.ErrInvalidInput)
	}

	audioPath := filepath.Join(u.uploadDir, u.ids.Next().String()+filepath.Ext(req.Filename))
	if err := saveUpload(audioPath, audio); err != nil {
		log.Error("failed to store uploaded audio", "error", err)
		return nil, fmt.Errorf("failed to store uploaded audio: %w", err)
	}

	meeting, err := u.storage.CreateMeeting(ctx, &entity.Meeting{
		Title:     req.Title,
		Date:      time.Now().Format("2006-01-02"),
		Language:  req.Language,
		AudioPath: audioPath,
		Status:    entity.StatusProcessing,
	})
	if err != nil {
		os.Remove(audioPath)
		return nil, err
	}

	u.pipeline.Submit(ctx, meeting.ID, audioPath, req.Language)
	log.Info("meeting created", "id", meeting.ID, "title", meeting.Title)

	return meeting, nil
}

func (u *usecase) ListMeetings(ctx context.Context) ([]*entity.Meeting, error) {
	return u.storage.ListMeetings(ctx)
}

func (u *usecase) GetMeeting(ctx context.Context, id int) (*entity.Meeting, error) {
	return u.storage.GetMeeting(ctx, id)
}

func (u *usecase) DeleteMeeting(ctx context.Context, id int) error {
	log := logger.FromContext(ctx)

	meeting, err := u.storage.GetMeeting(ctx, id)
	if err != nil {
		return err
	}

	if err := u.storage.DeleteMeeting(ctx, id); err != nil {
		return err
	}

	// Remove the audio and any rendered reports so nothing stays reachable
	// from a deleted record.
	removeIfExists(ctx, meeting.AudioPath)
	for format := range u.renderers {
		removeIfExists(ctx, u.reportPath(id, format))
	}
	log.Info("meeting deleted", "id", id)

	return nil
}

func (u *usecase) ExportMeeting(ctx context.Context, id int, format string) (*entity.Report, error) {
	log := logger.FromContext(ctx)

	meeting, err := u.storage.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("meeting processing not completed: %w", entity.ErrPreconditionFailed)
	}

	if format == "" {
		format = "pdf"
	}
	renderer, ok := u.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported report format %q: %w", format, entity.ErrInvalidInput)
	}

	path := u.reportPath(id, format)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := renderer.Render(meeting, path); err != nil {
		log.Error("failed to render report", "id", id, "format", format, "error", err)
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	log.Info("report rendered", "id", id, "format", format, "path", path)

	return &entity.Report{
		Path:        path,
		Filename:    strings.ReplaceAll(meeting.Title, " ", "_") + "_notes." + format,
		ContentType: contentTypes[format],
	}, nil
}

func (u *usecase) SearchMeeting(ctx context.Context, id int, query string) (*entity.SearchResult, error) {
	meeting, err := u.storage.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("meeting processing not completed: %w", entity.ErrPreconditionFailed)
	}

	return searchMeeting(meeting, query), nil
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func (u *usecase) reportPath(id int, format string) string {
	return filepath.Join(u.reportDir, fmt.Sprintf("meeting_%d.%s", id, format))
}

func saveUpload(path string, audio io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}

func removeIfExists(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn(ctx, "failed to remove file", "path", path, "error", err)
	}
}
