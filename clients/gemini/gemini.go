// Package gemini derives meeting summaries, action items and decisions from
// a transcript with the Gemini API. Participants and the duration estimate
// are computed locally from the transcript itself.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/meetscribe/backend/services/meeting/entity"
)

const (
	// Transcripts longer than chunkSize characters are split into
	// overlapping chunks and summarized map-then-reduce.
	chunkSize    = 4000
	chunkOverlap = 200
)

type Client struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func New(ctx context.Context, apiKey, model string, log *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, entity.NewProviderError("gemini", fmt.Errorf("create client: %w", err))
	}

	log.Debug("creating gemini client", slog.String("model", model))
	return &Client{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

// Summarize produces the full summary result for a transcript. Action items
// and decisions are extracted over the untruncated transcript with
// language-specific prompts; malformed model output for either list
// degrades to an empty list and is never an error.
func (c *Client) Summarize(ctx context.Context, transcript, language string) (*entity.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("empty transcript: %w", entity.ErrInvalidInput)
	}

	participants := extractParticipants(transcript)
	duration := estimateDuration(transcript)

	summary, err := c.summarize(ctx, transcript)
	if err != nil {
		return nil, err
	}

	itemsText, err := c.generate(ctx, fmt.Sprintf(actionItemsTemplate(language), transcript))
	if err != nil {
		return nil, err
	}
	actionItems := parseActionItems(c.log, itemsText)

	decisionsText, err := c.generate(ctx, fmt.Sprintf(decisionsTemplate(language), transcript))
	if err != nil {
		return nil, err
	}
	decisions := parseDecisions(c.log, decisionsText)

	return &entity.SummaryResult{
		Summary:      summary,
		ActionItems:  actionItems,
		Decisions:    decisions,
		Participants: participants,
		Duration:     duration,
	}, nil
}

// summarize runs a map-reduce summary over the transcript: each chunk is
// summarized independently, then the partial summaries are combined.
func (c *Client) summarize(ctx context.Context, transcript string) (string, error) {
	chunks := splitChunks(transcript, chunkSize, chunkOverlap)

	if len(chunks) == 1 {
		return c.generate(ctx, fmt.Sprintf(mapSummaryPrompt, chunks[0]))
	}

	c.log.Info("summarizing long transcript in chunks", slog.Int("chunks", len(chunks)))

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := c.generate(ctx, fmt.Sprintf(mapSummaryPrompt, chunk))
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	return c.generate(ctx, fmt.Sprintf(reduceSummaryPrompt, strings.Join(partials, "\n\n")))
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", entity.NewProviderError("gemini", fmt.Errorf("generate content: %w", err))
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", entity.NewProviderError("gemini", fmt.Errorf("empty response"))
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", entity.NewProviderError("gemini", fmt.Errorf("empty response"))
	}

	return strings.TrimSpace(text), nil
}
