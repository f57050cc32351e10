package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meetscribe/backend/services/meeting/entity"
)

type fakeStorage struct {
	meetings map[int]*entity.Meeting
	nextID   int

	createErr error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{meetings: make(map[int]*entity.Meeting), nextID: 1}
}

func (s *fakeStorage) EnsureSchema(ctx context.Context) error { return nil }

func (s *fakeStorage) CreateMeeting(ctx context.Context, m *entity.Meeting) (*entity.Meeting, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *m
	stored.ID = s.nextID
	s.nextID++
	s.meetings[stored.ID] = &stored
	return &stored, nil
}

func (s *fakeStorage) ListMeetings(ctx context.Context) ([]*entity.Meeting, error) {
	out := make([]*entity.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeStorage) GetMeeting(ctx context.Context, id int) (*entity.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return m, nil
}

func (s *fakeStorage) DeleteMeeting(ctx context.Context, id int) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.meetings[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *fakeStorage) CompleteMeeting(ctx context.Context, id int, transcript string, result *entity.SummaryResult) error {
	return nil
}

func (s *fakeStorage) FailMeeting(ctx context.Context, id int, message string) error { return nil }

func (s *fakeStorage) FailAllProcessing(ctx context.Context, message string) (int64, error) {
	return 0, nil
}

type fakeSubmitter struct {
	submissions []submission
}

type submission struct {
	meetingID int
	audioPath string
	language  string
}

func (f *fakeSubmitter) Submit(ctx context.Context, meetingID int, audioPath, language string) {
	f.submissions = append(f.submissions, submission{meetingID, audioPath, language})
}

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(m *entity.Meeting, path string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("report for "+m.Title), 0644)
}

func newTestUsecase(t *testing.T) (Usecase, *fakeStorage, *fakeSubmitter, *fakeRenderer) {
	t.Helper()
	stg := newFakeStorage()
	sub := &fakeSubmitter{}
	renderer := &fakeRenderer{}
	usc := New(stg, sub, map[string]Renderer{"pdf": renderer}, t.TempDir(), t.TempDir())
	return usc, stg, sub, renderer
}

func completedMeeting(transcript, summary string) *entity.Meeting {
	return &entity.Meeting{
		Title:      "Weekly Sync",
		Date:       "2024-03-01",
		Language:   "english",
		AudioPath:  "uploads/gone.wav",
		Status:     entity.StatusCompleted,
		Transcript: &transcript,
		Summary:    &summary,
		ActionItems: []entity.ActionItem{
			{Text: "Prepare budget draft", Assignee: "Alice"},
			{Text: "Book the venue"},
		},
		Decisions: []entity.Decision{{Text: "Budget approved"}},
	}
}

func TestCreateMeeting(t *testing.T) {
	usc, stg, sub, _ := newTestUsecase(t)

	meeting, err := usc.CreateMeeting(context.Background(), &entity.CreateMeetingRequest{
		Title:    "Weekly Sync",
		Language: "english",
		Filename: "recording.wav",
	}, strings.NewReader("fake audio bytes"))
	if err != nil {
		t.Fatalf("CreateMeeting() error = %v", err)
	}

	if meeting.ID == 0 {
		t.Error("meeting has no id")
	}
	if meeting.Status != entity.StatusProcessing {
		t.Errorf("status = %q, want %q", meeting.Status, entity.StatusProcessing)
	}
	if filepath.Ext(meeting.AudioPath) != ".wav" {
		t.Errorf("audio path %q does not keep the upload extension", meeting.AudioPath)
	}
	if data, err := os.ReadFile(meeting.AudioPath); err != nil || string(data) != "fake audio bytes" {
		t.Errorf("stored audio = %q, err = %v", data, err)
	}

	if len(sub.submissions) != 1 {
		t.Fatalf("expected 1 pipeline submission, got %d", len(sub.submissions))
	}
	got := sub.submissions[0]
	if got.meetingID != meeting.ID || got.audioPath != meeting.AudioPath || got.language != "english" {
		t.Errorf("unexpected submission: %+v", got)
	}

	if _, ok := stg.meetings[meeting.ID]; !ok {
		t.Error("meeting missing from storage")
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	usc, _, sub, _ := newTestUsecase(t)

	tests := []struct {
		name string
		req  *entity.CreateMeetingRequest
	}{
		{"missing title", &entity.CreateMeetingRequest{Language: "english", Filename: "a.wav"}},
		{"missing language", &entity.CreateMeetingRequest{Title: "Sync", Filename: "a.wav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usc.CreateMeeting(context.Background(), tt.req, strings.NewReader("audio"))
			if !errors.Is(err, entity.ErrInvalidInput) {
				t.Errorf("CreateMeeting() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if _, err := usc.CreateMeeting(context.Background(), &entity.CreateMeetingRequest{
		Title: "Sync", Language: "english", Filename: "a.wav",
	}, nil); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("CreateMeeting(nil audio) error = %v, want ErrInvalidInput", err)
	}

	if len(sub.submissions) != 0 {
		t.Errorf("invalid requests reached the pipeline: %v", sub.submissions)
	}
}

func TestCreateMeetingStorageFailureRemovesUpload(t *testing.T) {
	stg := newFakeStorage()
	stg.createErr = errors.New("connection refused")
	uploadDir := t.TempDir()
	usc := New(stg, &fakeSubmitter{}, nil, uploadDir, t.TempDir())

	_, err := usc.CreateMeeting(context.Background(), &entity.CreateMeetingRequest{
		Title: "Sync", Language: "english", Filename: "a.wav",
	}, strings.NewReader("audio"))
	if err == nil {
		t.Fatal("expected error")
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("upload not cleaned up after storage failure: %v", entries)
	}
}

func TestDeleteMeetingRemovesFiles(t *testing.T) {
	stg := newFakeStorage()
	sub := &fakeSubmitter{}
	renderer := &fakeRenderer{}
	uploadDir := t.TempDir()
	reportDir := t.TempDir()
	usc := New(stg, sub, map[string]Renderer{"pdf": renderer}, uploadDir, reportDir)

	audioPath := filepath.Join(uploadDir, "abc.wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(reportDir, "meeting_1.pdf")
	if err := os.WriteFile(reportPath, []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	stg.meetings[1] = &entity.Meeting{ID: 1, Title: "Sync", AudioPath: audioPath, Status: entity.StatusCompleted}

	if err := usc.DeleteMeeting(context.Background(), 1); err != nil {
		t.Fatalf("DeleteMeeting() error = %v", err)
	}

	if _, err := os.Stat(audioPath); !os.IsNotExist(err) {
		t.Error("audio file still exists after delete")
	}
	if _, err := os.Stat(reportPath); !os.IsNotExist(err) {
		t.Error("report file still exists after delete")
	}
	if _, ok := stg.meetings[1]; ok {
		t.Error("meeting still in storage after delete")
	}
}

func TestDeleteMeetingNotFound(t *testing.T) {
	usc, _, _, _ := newTestUsecase(t)
	if err := usc.DeleteMeeting(context.Background(), 42); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("DeleteMeeting() error = %v, want ErrNotFound", err)
	}
}

func TestExportMeeting(t *testing.T) {
	usc, stg, _, renderer := newTestUsecase(t)
	m := completedMeeting("Alice: hello", "short recap")
	m.ID = 1
	stg.meetings[1] = m

	report, err := usc.ExportMeeting(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("ExportMeeting() error = %v", err)
	}

	if renderer.calls != 1 {
		t.Errorf("renderer called %d times, want 1", renderer.calls)
	}
	if report.Filename != "Weekly_Sync_notes.pdf" {
		t.Errorf("filename = %q, want %q", report.Filename, "Weekly_Sync_notes.pdf")
	}
	if report.ContentType != "application/pdf" {
		t.Errorf("content type = %q", report.ContentType)
	}
	if filepath.Base(report.Path) != "meeting_1.pdf" {
		t.Errorf("report path = %q, want basename meeting_1.pdf", report.Path)
	}
	if _, err := os.Stat(report.Path); err != nil {
		t.Errorf("rendered report missing: %v", err)
	}
}

func TestExportMeetingNotCompleted(t *testing.T) {
	usc, stg, _, renderer := newTestUsecase(t)
	stg.meetings[1] = &entity.Meeting{ID: 1, Title: "Sync", Status: entity.StatusProcessing}

	_, err := usc.ExportMeeting(context.Background(), 1, "")
	if !errors.Is(err, entity.ErrPreconditionFailed) {
		t.Errorf("ExportMeeting() error = %v, want ErrPreconditionFailed", err)
	}
	if renderer.calls != 0 {
		t.Error("renderer invoked for an incomplete meeting")
	}
}

func TestExportMeetingUnsupportedFormat(t *testing.T) {
	usc, stg, _, _ := newTestUsecase(t)
	m := completedMeeting("t", "s")
	m.ID = 1
	stg.meetings[1] = m

	_, err := usc.ExportMeeting(context.Background(), 1, "odt")
	if !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("ExportMeeting() error = %v, want ErrInvalidInput", err)
	}
}

func TestSearchMeeting(t *testing.T) {
	usc, stg, _, _ := newTestUsecase(t)
	m := completedMeeting("Alice: the budget looks fine\nBob: agreed\nAlice: next topic", "We discussed the budget.")
	m.ID = 1
	stg.meetings[1] = m

	result, err := usc.SearchMeeting(context.Background(), 1, "BUDGET")
	if err != nil {
		t.Fatalf("SearchMeeting() error = %v", err)
	}

	if len(result.TranscriptMatches) != 1 {
		t.Errorf("transcript matches = %v, want 1", result.TranscriptMatches)
	}
	if result.SummaryMatch == nil {
		t.Error("summary match is nil, want the summary")
	}
	if len(result.ActionItemMatches) != 1 || result.ActionItemMatches[0].Text != "Prepare budget draft" {
		t.Errorf("action item matches = %v", result.ActionItemMatches)
	}
	if len(result.DecisionMatches) != 1 {
		t.Errorf("decision matches = %v", result.DecisionMatches)
	}
}

func TestSearchMeetingNoMatches(t *testing.T) {
	usc, stg, _, _ := newTestUsecase(t)
	m := completedMeeting("Alice: hello", "recap")
	m.ID = 1
	stg.meetings[1] = m

	result, err := usc.SearchMeeting(context.Background(), 1, "quarterly")
	if err != nil {
		t.Fatalf("SearchMeeting() error = %v", err)
	}

	if result.TranscriptMatches == nil || result.ActionItemMatches == nil || result.DecisionMatches == nil {
		t.Error("match slices must be non-nil even when empty")
	}
	if len(result.TranscriptMatches) != 0 || result.SummaryMatch != nil ||
		len(result.ActionItemMatches) != 0 || len(result.DecisionMatches) != 0 {
		t.Errorf("unexpected matches: %+v", result)
	}
}

func TestSearchMeetingNotCompleted(t *testing.T) {
	usc, stg, _, _ := newTestUsecase(t)
	stg.meetings[1] = &entity.Meeting{ID: 1, Status: entity.StatusFailed}

	_, err := usc.SearchMeeting(context.Background(), 1, "budget")
	if !errors.Is(err, entity.ErrPreconditionFailed) {
		t.Errorf("SearchMeeting() error = %v, want ErrPreconditionFailed", err)
	}
}
