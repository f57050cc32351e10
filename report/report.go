// Package report renders a completed meeting as a downloadable document.
// Section order is fixed: title, details table, participants, summary,
// action items, decisions, transcript. Output is deterministic for
// identical meeting data.
package report

import "github.com/meetscribe/backend/services/meeting/entity"

// actionItemLine formats one action item bullet. The assignee suffix appears
// only when an assignee is present; the due date only when both assignee and
// due date are present.
func actionItemLine(item entity.ActionItem) string {
	line := item.Text
	if item.Assignee != "" {
		line += " (Assignee: " + item.Assignee
		if item.DueDate != "" {
			line += ", Due: " + item.DueDate
		}
		line += ")"
	}

	return line
}

func durationOrUnknown(m *entity.Meeting) string {
	if m.Duration == nil || *m.Duration == "" {
		return "Unknown"
	}
	return *m.Duration
}
