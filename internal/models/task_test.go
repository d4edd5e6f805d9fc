package models

import (
	"errors"
	"testing"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr error
	}{
		{"plain title", CreateTaskRequest{Title: "Buy milk"}, nil},
		{"title needs trimming", CreateTaskRequest{Title: "  Buy milk  "}, nil},
		{"empty title", CreateTaskRequest{Title: ""}, ErrEmptyTitle},
		{"whitespace title", CreateTaskRequest{Title: "   \t "}, ErrEmptyTitle},
		{"known priority", CreateTaskRequest{Title: "x", Priority: PriorityHigh}, nil},
		{"unknown priority", CreateTaskRequest{Title: "x", Priority: "urgent"}, ErrInvalidPriority},
		{"known tag", CreateTaskRequest{Title: "x", Tag: TagHealth}, nil},
		{"unknown tag", CreateTaskRequest{Title: "x", Tag: "Chores"}, ErrInvalidTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if err == nil && tt.req.Title != "Buy milk" && tt.req.Title != "x" {
				t.Errorf("expected trimmed title, got %q", tt.req.Title)
			}
		})
	}
}

func TestUpdateTaskRequestValidate(t *testing.T) {
	completed := true
	req := UpdateTaskRequest{Title: " Call dentist ", Completed: &completed}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if req.Title != "Call dentist" {
		t.Errorf("expected trimmed title, got %q", req.Title)
	}

	req = UpdateTaskRequest{Title: ""}
	if err := req.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Validate() = %v, want ErrEmptyTitle", err)
	}
}
