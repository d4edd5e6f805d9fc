// Package reconcile mediates task mutations between an in-memory collection
// and the remote store, applying optimistic local changes when the store is
// unreachable so the tracker stays usable offline.
package reconcile

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/models"
)

// Store is the remote task store contract, scoped to one user by the
// implementation.
type Store interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	Toggle(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

// Status tags the outcome of a mutation.
type Status int

const (
	// Confirmed: the store accepted the mutation and its record is canonical.
	Confirmed Status = iota
	// Degraded: the store call failed and the mutation was applied to the
	// local collection only. Not yet persisted.
	Degraded
	// Rejected: invalid input or unknown id. Nothing mutated, no call made
	// past validation.
	Rejected
	// Failed: a refetch failed; the collection was reset to empty.
	Failed
)

func (s Status) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Degraded:
		return "degraded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the tagged outcome of one operation. Task is the record after
// the mutation (nil for delete and refetch). Err carries the validation
// error for Rejected and the remote error for Degraded and Failed.
type Result struct {
	Status Status
	Task   *models.Task
	Err    error
}

// ErrNotFound is returned (inside a Rejected result) when an operation
// names a task id absent from the collection.
var ErrNotFound = errors.New("task not found")

// Reconciler owns the in-memory task collection. It imposes no internal
// locking: the caller serializes operations, and each call is a single
// round-trip attempt with no retry or queued replay.
type Reconciler struct {
	store Store
	tasks []models.Task
	now   func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock replaces the wall clock used for local id synthesis and
// creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// New returns a Reconciler with an empty collection.
func New(store Store, opts ...Option) *Reconciler {
	r := &Reconciler{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tasks returns a copy of the current collection.
func (r *Reconciler) Tasks() []models.Task {
	out := make([]models.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Len returns the collection size.
func (r *Reconciler) Len() int {
	return len(r.tasks)
}

func (r *Reconciler) index(id int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// localID synthesizes a collection-unique id for a task created while the
// store is unreachable. Millisecond timestamps are unique enough for a
// single user; bump past collisions from fast successive adds.
func (r *Reconciler) localID() int64 {
	id := r.now().UnixMilli()
	for r.index(id) >= 0 {
		id++
	}
	return id
}

// Add creates a task. An empty trimmed title is rejected before any store
// call. On store failure a local task with a synthesized id is inserted and
// the result is Degraded.
func (r *Reconciler) Add(ctx context.Context, req models.CreateTaskRequest) Result {
	if err := req.Validate(); err != nil {
		return Result{Status: Rejected, Err: err}
	}

	created, err := r.store.Create(ctx, req)
	if err == nil {
		r.tasks = append(r.tasks, *created)
		return Result{Status: Confirmed, Task: created}
	}

	local := models.Task{
		ID:        r.localID(),
		Title:     req.Title,
		Completed: false,
		CreatedAt: r.now(),
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Tag:       req.Tag,
	}
	r.tasks = append(r.tasks, local)
	return Result{Status: Degraded, Task: &local, Err: err}
}

// Toggle flips a task's completed flag. On store success the server record
// replaces the local one wholesale; on failure only the flag flips locally.
func (r *Reconciler) Toggle(ctx context.Context, id int64) Result {
	i := r.index(id)
	if i < 0 {
		return Result{Status: Rejected, Err: ErrNotFound}
	}

	updated, err := r.store.Toggle(ctx, id)
	if err == nil {
		r.tasks[i] = *updated
		return Result{Status: Confirmed, Task: updated}
	}

	r.tasks[i].Completed = !r.tasks[i].Completed
	local := r.tasks[i]
	return Result{Status: Degraded, Task: &local, Err: err}
}

// Edit applies a full update to a task. On store failure the same field
// changes are applied locally. The task keeps its identity either way.
func (r *Reconciler) Edit(ctx context.Context, id int64, req models.UpdateTaskRequest) Result {
	if err := req.Validate(); err != nil {
		return Result{Status: Rejected, Err: err}
	}
	i := r.index(id)
	if i < 0 {
		return Result{Status: Rejected, Err: ErrNotFound}
	}

	updated, err := r.store.Update(ctx, id, req)
	if err == nil {
		r.tasks[i] = *updated
		return Result{Status: Confirmed, Task: updated}
	}

	r.tasks[i].Title = req.Title
	r.tasks[i].DueDate = req.DueDate
	r.tasks[i].Priority = req.Priority
	r.tasks[i].Tag = req.Tag
	if req.Completed != nil {
		r.tasks[i].Completed = *req.Completed
	}
	local := r.tasks[i]
	return Result{Status: Degraded, Task: &local, Err: err}
}

// Delete removes a task. The local removal happens whether or not the store
// call succeeds; a failed store call yields Degraded so the caller can warn
// that the deletion may not have persisted server-side.
func (r *Reconciler) Delete(ctx context.Context, id int64) Result {
	i := r.index(id)
	if i < 0 {
		return Result{Status: Rejected, Err: ErrNotFound}
	}

	err := r.store.Delete(ctx, id)
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	if err != nil {
		return Result{Status: Degraded, Err: err}
	}
	return Result{Status: Confirmed}
}

// RefetchAll replaces the collection with the store's list. On failure the
// collection becomes empty rather than silently stale, and the result is a
// hard Failed.
func (r *Reconciler) RefetchAll(ctx context.Context) Result {
	tasks, err := r.store.List(ctx)
	if err != nil {
		r.tasks = nil
		return Result{Status: Failed, Err: err}
	}
	r.tasks = tasks
	return Result{Status: Confirmed}
}
