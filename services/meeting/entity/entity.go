package entity

import "time"

// Meeting statuses. A meeting is created as processing and transitions
// exactly once, to completed or failed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Supported primary-language hints for uploaded audio.
const (
	LanguageEnglish   = "english"
	LanguageMandarin  = "mandarin"
	LanguageCantonese = "cantonese"
	LanguageMixed     = "mixed"
)

type Meeting struct {
	ID           int
	Title        string
	Date         string
	Language     string
	AudioPath    string
	Transcript   *string
	Summary      *string
	ActionItems  []ActionItem
	Decisions    []Decision
	Participants []Participant
	Duration     *string
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type ActionItem struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}

type Decision struct {
	Text string `json:"text"`
}

type Participant struct {
	Name string `json:"name"`
}

// SummaryResult is the full output of the summarization provider.
type SummaryResult struct {
	Summary      string
	ActionItems  []ActionItem
	Decisions    []Decision
	Participants []Participant
	Duration     string
}

type CreateMeetingRequest struct {
	Title    string
	Language string
	Filename string
}

// SearchResult holds per-field substring match buckets for one meeting.
type SearchResult struct {
	TranscriptMatches []string     `json:"transcript_matches"`
	SummaryMatch      *string      `json:"summary_match"`
	ActionItemMatches []ActionItem `json:"action_item_matches"`
	DecisionMatches   []Decision   `json:"decision_matches"`
}

// Report describes a rendered report file ready to be served.
type Report struct {
	Path        string
	Filename    string
	ContentType string
}
