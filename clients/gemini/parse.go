package gemini

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/meetscribe/backend/services/meeting/entity"
)

// jsonArrayRe finds the first bracketed span in free-form model output,
// matching greedily across newlines.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// parseActionItems extracts the JSON array from the model response. Missing
// or malformed JSON degrades to an empty list; it is never fatal.
func parseActionItems(log *slog.Logger, text string) []entity.ActionItem {
	span := jsonArrayRe.FindString(text)
	if span == "" {
		log.Warn("no JSON array found in action items response", slog.String("response", text))
		return []entity.ActionItem{}
	}

	var items []entity.ActionItem
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		log.Error("failed to parse action items", slog.String("error", err.Error()))
		return []entity.ActionItem{}
	}
	if items == nil {
		return []entity.ActionItem{}
	}

	return items
}

// parseDecisions extracts the JSON array from the model response with the
// same degraded-to-empty behavior as parseActionItems.
func parseDecisions(log *slog.Logger, text string) []entity.Decision {
	span := jsonArrayRe.FindString(text)
	if span == "" {
		log.Warn("no JSON array found in decisions response", slog.String("response", text))
		return []entity.Decision{}
	}

	var decisions []entity.Decision
	if err := json.Unmarshal([]byte(span), &decisions); err != nil {
		log.Error("failed to parse decisions", slog.String("error", err.Error()))
		return []entity.Decision{}
	}
	if decisions == nil {
		return []entity.Decision{}
	}

	return decisions
}

// extractParticipants treats every line with a ':' delimiter as a
// speaker-labeled utterance and collects the distinct prefixes. Transcripts
// without that convention yield zero participants.
func extractParticipants(transcript string) []entity.Participant {
	seen := make(map[string]struct{})
	participants := []entity.Participant{}

	for _, line := range strings.Split(strings.TrimSpace(transcript), "\n") {
		name, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		participants = append(participants, entity.Participant{Name: name})
	}

	return participants
}

// estimateDuration approximates the meeting length from the word count at
// 150 words per minute, floored at 5 minutes. This is an estimate, not a
// measurement of the audio.
func estimateDuration(transcript string) string {
	words := len(strings.Fields(transcript))
	minutes := int(math.Round(float64(words) / 150.0))
	if minutes < 5 {
		minutes = 5
	}

	return fmt.Sprintf("%d min", minutes)
}

// splitChunks splits text into rune chunks of at most size characters with
// the given overlap between consecutive chunks.
func splitChunks(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
