package ui

import (
	"strings"

	"taskdeck/internal/models"
)

// parseQuickAdd splits one input line into a task payload. Markers may
// appear anywhere after the title words: @<due date>, !<priority>, #<tag>.
//
//	pay rent @2025-11-01 !high #Work
//
// Unknown priority or tag values are kept as typed and rejected by payload
// validation, so the user sees the real error instead of silent dropping.
func parseQuickAdd(line string) models.CreateTaskRequest {
	var req models.CreateTaskRequest
	var title []string
	for _, field := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(field, "@") && len(field) > 1:
			req.DueDate = field[1:]
		case strings.HasPrefix(field, "!") && len(field) > 1:
			req.Priority = models.Priority(strings.ToLower(field[1:]))
		case strings.HasPrefix(field, "#") && len(field) > 1:
			req.Tag = models.Tag(field[1:])
		default:
			title = append(title, field)
		}
	}
	req.Title = strings.Join(title, " ")
	return req
}

// quickAddLine renders a task back into the quick-add syntax, used to
// prefill the edit input.
func quickAddLine(t models.Task) string {
	parts := []string{t.Title}
	if t.DueDate != "" {
		parts = append(parts, "@"+t.DueDate)
	}
	if t.Priority != "" {
		parts = append(parts, "!"+string(t.Priority))
	}
	if t.Tag != "" {
		parts = append(parts, "#"+string(t.Tag))
	}
	return strings.Join(parts, " ")
}
