// Package classify buckets tasks by due date relative to a reference
// instant. All comparisons are by calendar day in the reference instant's
// location; time-of-day never affects bucket membership.
package classify

import (
	"time"

	"taskdeck/internal/models"
)

// Tab selects which slice of the non-completed tasks is visible.
type Tab string

const (
	TabToday   Tab = "today"
	TabPending Tab = "pending"
	TabOverdue Tab = "overdue"
)

// dueLayouts are the accepted due date encodings: date-only values from a
// date picker and full RFC3339 instants.
var dueLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// StartOfDay returns midnight of t's calendar day in t's location. Every
// day comparison in this package goes through here.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDay parses a raw due date value and normalizes it to midnight of its
// calendar day in ref's location. Date-only values are taken as local days;
// zoned instants are converted into ref's zone first. Empty or malformed
// values report ok=false, which callers treat as "no due date".
func DueDay(raw string, ref time.Time) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, raw, ref.Location())
		if err != nil {
			continue
		}
		return StartOfDay(t.In(ref.Location())), true
	}
	return time.Time{}, false
}

// Matches reports whether a non-completed task with the given raw due date
// belongs on tab, relative to the reference instant. Tasks without a due
// date (or with one that does not parse) match only the pending tab.
func Matches(dueDate string, tab Tab, ref time.Time) bool {
	due, ok := DueDay(dueDate, ref)
	if !ok {
		return tab == TabPending
	}
	day := StartOfDay(ref)
	switch tab {
	case TabToday:
		return due.Equal(day)
	case TabPending:
		return due.After(day)
	case TabOverdue:
		return due.Before(day)
	}
	return false
}

// Active returns the non-completed tasks matching tab. The reference
// instant is captured once by the caller so one pass sees one "now". The
// input is never mutated; the result is a fresh slice.
func Active(tasks []models.Task, tab Tab, ref time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if Matches(t.DueDate, tab, ref) {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns the completed tasks, which are excluded from every tab
// regardless of due date.
func Completed(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Partition returns both buckets for one pass over the collection.
func Partition(tasks []models.Task, tab Tab, ref time.Time) (active, completed []models.Task) {
	return Active(tasks, tab, ref), Completed(tasks)
}
