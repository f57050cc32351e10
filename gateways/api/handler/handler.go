package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meetscribe/backend/pkg/json"
	"github.com/meetscribe/backend/services/meeting/entity"
	"github.com/meetscribe/backend/services/meeting/usecase"
)

const maxUploadMemory = 64 << 20

type Handler struct {
	usecase usecase.Usecase
	log     *slog.Logger
}

func New(usc usecase.Usecase, log *slog.Logger) *Handler {
	return &Handler{
		usecase: usc,
		log:     log,
	}
}

type CreateMeetingResponse struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type MeetingResponse struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Language string  `json:"language"`
	Status   string  `json:"status"`
	Duration *string `json:"duration"`
}

type MeetingDetailResponse struct {
	MeetingResponse
	Transcript   *string              `json:"transcript"`
	Summary      *string              `json:"summary"`
	ActionItems  []entity.ActionItem  `json:"action_items"`
	Decisions    []entity.Decision    `json:"decisions"`
	Participants []entity.Participant `json:"participants"`
	ErrorMessage *string              `json:"error_message"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]string{"message": "Multilingual Meeting Assistant API"})
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	h.log.Info("create meeting request received", slog.String("remote_addr", r.RemoteAddr))

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.log.Warn("invalid multipart form", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}

	title := r.FormValue("title")
	language := r.FormValue("primary_language")

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		h.log.Warn("audio_file missing from upload", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusBadRequest, errors.New("audio_file is required"))
		return
	}
	defer file.Close()

	meeting, err := h.usecase.CreateMeeting(r.Context(), &entity.CreateMeetingRequest{
		Title:    title,
		Language: language,
		Filename: header.Filename,
	}, file)
	if err != nil {
		h.log.Error("failed to create meeting", slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	h.log.Info("meeting created",
		slog.Int("id", meeting.ID),
		slog.String("title", meeting.Title))
	json.WriteJSON(w, http.StatusOK, CreateMeetingResponse{
		ID:     meeting.ID,
		Title:  meeting.Title,
		Status: meeting.Status,
	})
}

func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.usecase.ListMeetings(r.Context())
	if err != nil {
		h.log.Error("failed to list meetings", slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	resp := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		resp = append(resp, toMeetingResponse(m))
	}
	json.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	meeting, err := h.usecase.GetMeeting(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, toMeetingDetailResponse(meeting))
}

func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	if err := h.usecase.DeleteMeeting(r.Context(), id); err != nil {
		h.log.Error("failed to delete meeting", slog.Int("id", id), slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, map[string]string{"message": "Meeting deleted successfully"})
}

func (h *Handler) ExportMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	report, err := h.usecase.ExportMeeting(r.Context(), id, format)
	if err != nil {
		h.log.Error("failed to export meeting", slog.Int("id", id), slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	http.ServeFile(w, r, report.Path)
}

func (h *Handler) SearchMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		json.WriteError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	result, err := h.usecase.SearchMeeting(r.Context(), id, query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) meetingID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		json.WriteError(w, http.StatusNotFound, errors.New("meeting not found"))
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		json.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrPreconditionFailed):
		json.WriteError(w, http.StatusBadRequest, err)
	default:
		json.WriteError(w, http.StatusInternalServerError, err)
	}
}

func toMeetingResponse(m *entity.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:       m.ID,
		Title:    m.Title,
		Date:     m.Date,
		Language: m.Language,
		Status:   m.Status,
		Duration: m.Duration,
	}
}

func toMeetingDetailResponse(m *entity.Meeting) MeetingDetailResponse {
	return MeetingDetailResponse{
		MeetingResponse: toMeetingResponse(m),
		Transcript:      m.Transcript,
		Summary:         m.Summary,
		ActionItems:     m.ActionItems,
		Decisions:       m.Decisions,
		Participants:    m.Participants,
		ErrorMessage:    m.ErrorMessage,
	}
}
