package usecase

import (
	"strings"

	"github.com/meetscribe/backend/services/meeting/entity"
)

// searchMeeting does case-insensitive substring matching independently over
// the transcript lines, the summary, the action items and the decisions. No
// ranking, no fuzzy matching.
func searchMeeting(m *entity.Meeting, query string) *entity.SearchResult {
	needle := strings.ToLower(query)
	result := &entity.SearchResult{
		TranscriptMatches: []string{},
		ActionItemMatches: []entity.ActionItem{},
		DecisionMatches:   []entity.Decision{},
	}

	if m.Transcript != nil {
		for _, line := range strings.Split(*m.Transcript, "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				result.TranscriptMatches = append(result.TranscriptMatches, line)
			}
		}
	}

	if m.Summary != nil && strings.Contains(strings.ToLower(*m.Summary), needle) {
		result.SummaryMatch = m.Summary
	}

	for _, item := range m.ActionItems {
		if strings.Contains(strings.ToLower(item.Text), needle) {
			result.ActionItemMatches = append(result.ActionItemMatches, item)
		}
	}

	for _, decision := range m.Decisions {
		if strings.Contains(strings.ToLower(decision.Text), needle) {
			result.DecisionMatches = append(result.DecisionMatches, decision)
		}
	}

	return result
}
