package models

import (
	"errors"
	"strings"
	"time"
)

// Priority is the optional task priority. The empty string means no priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is empty or one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Tag is the optional task label. The empty string means untagged.
type Tag string

const (
	TagWork          Tag = "Work"
	TagEntertainment Tag = "Entertainment"
	TagHealth        Tag = "Health"
)

// Valid reports whether t is empty or one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case "", TagWork, TagEntertainment, TagHealth:
		return true
	}
	return false
}

// Task is a single to-do item. DueDate stays a raw string on this side of
// the wire: it is either a date-only value (2025-10-20), a full RFC3339
// instant, or empty for no due date. Malformed values are carried as-is and
// degrade to "no due date" during classification instead of failing decode.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	DueDate   string    `json:"dueDate,omitempty"`
	Priority  Priority  `json:"priority,omitempty"`
	Tag       Tag       `json:"tag,omitempty"`
}

// User is the identity record the store keeps per display name.
type User struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidTag      = errors.New("tag must be Work, Entertainment or Health")
)

// CreateTaskRequest is the create payload. Title is the only required field.
type CreateTaskRequest struct {
	Title    string   `json:"title"`
	DueDate  string   `json:"dueDate,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Tag      Tag      `json:"tag,omitempty"`
}

// Validate trims the title and checks the enum fields. It mutates the
// receiver so the stored title is the trimmed one.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !r.Tag.Valid() {
		return ErrInvalidTag
	}
	return nil
}

// UpdateTaskRequest is the full-update payload. Completed is a pointer so
// "leave unchanged" and "set false" are distinguishable.
type UpdateTaskRequest struct {
	Title     string   `json:"title"`
	DueDate   string   `json:"dueDate,omitempty"`
	Priority  Priority `json:"priority,omitempty"`
	Tag       Tag      `json:"tag,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

// Validate trims the title and checks the enum fields.
func (r *UpdateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !r.Tag.Valid() {
		return ErrInvalidTag
	}
	return nil
}

// TaskEvent is the message payload published to Kafka after a successful
// store mutation (created/updated/toggled/deleted).
type TaskEvent struct {
	EventID    string    `json:"event_id"`
	Action     string    `json:"action"` // created, updated, toggled, deleted
	TaskID     int64     `json:"task_id"`
	UserName   string    `json:"user_name"`
	OccurredAt time.Time `json:"occurred_at"`
}
