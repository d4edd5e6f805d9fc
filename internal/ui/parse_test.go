package ui

import (
	"testing"

	"taskdeck/internal/models"
)

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.CreateTaskRequest
	}{
		{
			"title only",
			"buy milk",
			models.CreateTaskRequest{Title: "buy milk"},
		},
		{
			"all markers",
			"pay rent @2025-11-01 !high #Work",
			models.CreateTaskRequest{Title: "pay rent", DueDate: "2025-11-01", Priority: models.PriorityHigh, Tag: models.TagWork},
		},
		{
			"markers between words",
			"pay @2025-11-01 rent !low",
			models.CreateTaskRequest{Title: "pay rent", DueDate: "2025-11-01", Priority: models.PriorityLow},
		},
		{
			"priority is case insensitive",
			"x !HIGH",
			models.CreateTaskRequest{Title: "x", Priority: models.PriorityHigh},
		},
		{
			"bare markers are title text",
			"ping @ the # office",
			models.CreateTaskRequest{Title: "ping @ the # office"},
		},
		{
			"empty line",
			"   ",
			models.CreateTaskRequest{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseQuickAdd(tt.line); got != tt.want {
				t.Errorf("parseQuickAdd(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestQuickAddLineRoundTrip(t *testing.T) {
	task := models.Task{
		Title:    "pay rent",
		DueDate:  "2025-11-01",
		Priority: models.PriorityHigh,
		Tag:      models.TagWork,
	}
	line := quickAddLine(task)
	got := parseQuickAdd(line)
	if got.Title != task.Title || got.DueDate != task.DueDate ||
		got.Priority != task.Priority || got.Tag != task.Tag {
		t.Errorf("round trip through %q lost fields: %+v", line, got)
	}
}
