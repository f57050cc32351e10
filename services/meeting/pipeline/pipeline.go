package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/meetscribe/backend/pkg/logger"
	"github.com/meetscribe/backend/services/meeting/entity"
	"github.com/meetscribe/backend/services/meeting/storage"
)

// Transcriber converts an audio file plus a language hint into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Summarizer derives summary, action items, decisions, participants and an
// estimated duration from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, language string) (*entity.SummaryResult, error)
}

// Pipeline advances a meeting through its status machine: transcription,
// then summarization, then one atomic completion write. Runs are bounded by
// a counting semaphore and guarded per meeting id so at most one run per
// meeting is in flight.
type Pipeline struct {
	storage     storage.Storage
	transcriber Transcriber
	summarizer  Summarizer

	semaphore chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	inflight map[int]struct{}
}

func New(stg storage.Storage, transcriber Transcriber, summarizer Summarizer, maxConcurrent int) *Pipeline {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Pipeline{
		storage:     stg,
		transcriber: transcriber,
		summarizer:  summarizer,
		semaphore:   make(chan struct{}, maxConcurrent),
		inflight:    make(map[int]struct{}),
	}
}

// Submit schedules a run for the meeting and returns immediately. The run is
// detached from the request context so a client disconnect cannot abort it.
// A duplicate submission for a meeting already in flight is dropped.
func (p *Pipeline) Submit(ctx context.Context, meetingID int, audioPath, language string) {
	log := logger.FromContext(ctx)

	p.mu.Lock()
	if _, running := p.inflight[meetingID]; running {
		p.mu.Unlock()
		log.Warn("pipeline run already in flight, dropping submission", "meeting_id", meetingID)
		return
	}
	p.inflight[meetingID] = struct{}{}
	p.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			delete(p.inflight, meetingID)
			p.mu.Unlock()
		}()

		p.semaphore <- struct{}{}
		defer func() { <-p.semaphore }()

		p.run(ctx, meetingID, audioPath, language)
	}()
}

// Wait blocks until every in-flight run has finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Reconcile finalizes meetings left in processing by a previous process as
// failed, so no record stays stuck forever after a crash.
func (p *Pipeline) Reconcile(ctx context.Context) error {
	log := logger.FromContext(ctx)

	count, err := p.storage.FailAllProcessing(ctx, "processing interrupted by restart")
	if err != nil {
		return fmt.Errorf("reconcile stale meetings: %w", err)
	}
	if count > 0 {
		log.Warn("finalized stale processing meetings", "count", count)
	}

	return nil
}

func (p *Pipeline) run(ctx context.Context, meetingID int, audioPath, language string) {
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", "meeting_id", meetingID, "panic", r)
			p.fail(ctx, meetingID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	log.Info("pipeline started", "meeting_id", meetingID, "language", language)

	transcript, err := p.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		logger.ErrorErr(ctx, "transcription failed", err, "meeting_id", meetingID)
		p.fail(ctx, meetingID, err.Error())
		return
	}

	result, err := p.summarizer.Summarize(ctx, transcript, language)
	if err != nil {
		logger.ErrorErr(ctx, "summarization failed", err, "meeting_id", meetingID)
		p.fail(ctx, meetingID, err.Error())
		return
	}

	if err := p.storage.CompleteMeeting(ctx, meetingID, transcript, result); err != nil {
		logger.ErrorErr(ctx, "completion write failed", err, "meeting_id", meetingID)
		p.fail(ctx, meetingID, err.Error())
		return
	}

	log.Info("pipeline completed", "meeting_id", meetingID)
}

// fail persists the failed transition best-effort; a write failure here is
// logged and swallowed since the pipeline runs detached from any caller.
func (p *Pipeline) fail(ctx context.Context, meetingID int, message string) {
	if err := p.storage.FailMeeting(ctx, meetingID, message); err != nil {
		logger.ErrorErr(ctx, "failed to persist failure state", err, "meeting_id", meetingID)
	}
}
