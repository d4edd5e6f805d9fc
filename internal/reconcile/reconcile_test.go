package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskdeck/internal/models"
)

// fakeStore lets each test script the remote behavior per operation and
// records whether a call was made.
type fakeStore struct {
	listFn   func(ctx context.Context) ([]models.Task, error)
	createFn func(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	toggleFn func(ctx context.Context, id int64) (*models.Task, error)
	updateFn func(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error)
	deleteFn func(ctx context.Context, id int64) error
	calls    int
}

func (f *fakeStore) List(ctx context.Context) ([]models.Task, error) {
	f.calls++
	return f.listFn(ctx)
}

func (f *fakeStore) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	f.calls++
	return f.createFn(ctx, req)
}

func (f *fakeStore) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	f.calls++
	return f.toggleFn(ctx, id)
}

func (f *fakeStore) Update(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	f.calls++
	return f.updateFn(ctx, id, req)
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	f.calls++
	return f.deleteFn(ctx, id)
}

var errRemote = errors.New("store unreachable")

func fixedClock() func() time.Time {
	t := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

// seed loads the reconciler's collection through a scripted refetch.
func seed(t *testing.T, r *Reconciler, store *fakeStore, tasks []models.Task) {
	t.Helper()
	store.listFn = func(context.Context) ([]models.Task, error) { return tasks, nil }
	if res := r.RefetchAll(context.Background()); res.Status != Confirmed {
		t.Fatalf("seeding refetch failed: %+v", res)
	}
	store.calls = 0
}

func TestAddEmptyTitleRejectedWithoutCall(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	res := r.Add(context.Background(), models.CreateTaskRequest{Title: "   "})
	if res.Status != Rejected {
		t.Fatalf("status = %v, want Rejected", res.Status)
	}
	if !errors.Is(res.Err, models.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", res.Err)
	}
	if store.calls != 0 {
		t.Error("store was called for an invalid add")
	}
	if r.Len() != 0 {
		t.Error("collection mutated by a rejected add")
	}
}

func TestAddConfirmedUsesServerRecord(t *testing.T) {
	store := &fakeStore{
		createFn: func(_ context.Context, req models.CreateTaskRequest) (*models.Task, error) {
			return &models.Task{ID: 42, Title: req.Title, CreatedAt: time.Now()}, nil
		},
	}
	r := New(store)

	res := r.Add(context.Background(), models.CreateTaskRequest{Title: "  Buy milk "})
	if res.Status != Confirmed {
		t.Fatalf("status = %v, want Confirmed", res.Status)
	}
	if res.Task.ID != 42 {
		t.Errorf("task id = %d, want server-assigned 42", res.Task.ID)
	}
	if res.Task.Title != "Buy milk" {
		t.Errorf("title = %q, want trimmed %q", res.Task.Title, "Buy milk")
	}
	if r.Len() != 1 {
		t.Errorf("collection size = %d, want 1", r.Len())
	}
}

func TestAddDegradedSynthesizesLocalTask(t *testing.T) {
	store := &fakeStore{
		createFn: func(context.Context, models.CreateTaskRequest) (*models.Task, error) {
			return nil, errRemote
		},
	}
	r := New(store, WithClock(fixedClock()))

	res := r.Add(context.Background(), models.CreateTaskRequest{Title: "Buy milk"})
	if res.Status != Degraded {
		t.Fatalf("status = %v, want Degraded", res.Status)
	}
	if !errors.Is(res.Err, errRemote) {
		t.Errorf("err = %v, want the remote error", res.Err)
	}
	if res.Task == nil || res.Task.Title != "Buy milk" || res.Task.Completed {
		t.Fatalf("unexpected local task: %+v", res.Task)
	}
	want := fixedClock()().UnixMilli()
	if res.Task.ID != want {
		t.Errorf("local id = %d, want clock-derived %d", res.Task.ID, want)
	}
	if r.Len() != 1 {
		t.Errorf("collection size = %d, want 1", r.Len())
	}
}

func TestAddDegradedLocalIDsStayUnique(t *testing.T) {
	store := &fakeStore{
		createFn: func(context.Context, models.CreateTaskRequest) (*models.Task, error) {
			return nil, errRemote
		},
	}
	r := New(store, WithClock(fixedClock()))

	first := r.Add(context.Background(), models.CreateTaskRequest{Title: "one"})
	second := r.Add(context.Background(), models.CreateTaskRequest{Title: "two"})
	if first.Task.ID == second.Task.ID {
		t.Errorf("two degraded adds under a frozen clock shared id %d", first.Task.ID)
	}
}

func TestToggleUnknownIDRejected(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	res := r.Toggle(context.Background(), 7)
	if res.Status != Rejected || !errors.Is(res.Err, ErrNotFound) {
		t.Fatalf("got %+v, want Rejected/ErrNotFound", res)
	}
	if store.calls != 0 {
		t.Error("store was called for an unknown id")
	}
}

func TestToggleConfirmedReplacesRecordWholesale(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1, Title: "old title"}})

	// Server is authoritative for every field, not just completed.
	store.toggleFn = func(_ context.Context, id int64) (*models.Task, error) {
		return &models.Task{ID: id, Title: "renamed on server", Completed: true, Priority: models.PriorityHigh}, nil
	}
	res := r.Toggle(context.Background(), 1)
	if res.Status != Confirmed {
		t.Fatalf("status = %v, want Confirmed", res.Status)
	}
	got := r.Tasks()[0]
	if got.Title != "renamed on server" || !got.Completed || got.Priority != models.PriorityHigh {
		t.Errorf("local record not replaced by server record: %+v", got)
	}
}

func TestToggleDegradedFlipsLocally(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1, Title: "x", Completed: false}})

	store.toggleFn = func(context.Context, int64) (*models.Task, error) { return nil, errRemote }
	res := r.Toggle(context.Background(), 1)
	if res.Status != Degraded || !errors.Is(res.Err, errRemote) {
		t.Fatalf("got %+v, want Degraded with remote error", res)
	}
	if !r.Tasks()[0].Completed {
		t.Error("completed flag not flipped locally")
	}

	// A second degraded toggle flips it back.
	r.Toggle(context.Background(), 1)
	if r.Tasks()[0].Completed {
		t.Error("second toggle did not flip back")
	}
}

func TestEditValidatesBeforeLookup(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1, Title: "keep me"}})

	res := r.Edit(context.Background(), 1, models.UpdateTaskRequest{Title: " "})
	if res.Status != Rejected || !errors.Is(res.Err, models.ErrEmptyTitle) {
		t.Fatalf("got %+v, want Rejected/ErrEmptyTitle", res)
	}
	if store.calls != 0 {
		t.Error("store was called for an invalid edit")
	}
	if r.Tasks()[0].Title != "keep me" {
		t.Error("collection mutated by a rejected edit")
	}
}

func TestEditDegradedAppliesFieldsLocally(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1, Title: "old", DueDate: "2025-10-20"}})

	store.updateFn = func(context.Context, int64, models.UpdateTaskRequest) (*models.Task, error) {
		return nil, errRemote
	}
	completed := true
	res := r.Edit(context.Background(), 1, models.UpdateTaskRequest{
		Title:     "new title",
		DueDate:   "2025-11-01",
		Priority:  models.PriorityLow,
		Tag:       models.TagWork,
		Completed: &completed,
	})
	if res.Status != Degraded {
		t.Fatalf("status = %v, want Degraded", res.Status)
	}
	got := r.Tasks()[0]
	if got.ID != 1 {
		t.Errorf("identity changed on edit: id = %d", got.ID)
	}
	if got.Title != "new title" || got.DueDate != "2025-11-01" ||
		got.Priority != models.PriorityLow || got.Tag != models.TagWork || !got.Completed {
		t.Errorf("local fields not applied: %+v", got)
	}
}

func TestDeleteRemovesLocallyEvenWhenRemoteFails(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1}, {ID: 2}})

	store.deleteFn = func(context.Context, int64) error { return errRemote }
	res := r.Delete(context.Background(), 1)
	if res.Status != Degraded || !errors.Is(res.Err, errRemote) {
		t.Fatalf("got %+v, want Degraded with remote error", res)
	}
	remaining := r.Tasks()
	if len(remaining) != 1 || remaining[0].ID != 2 {
		t.Errorf("collection after delete = %v, want only id 2", remaining)
	}
}

func TestDeleteConfirmed(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1}})

	store.deleteFn = func(context.Context, int64) error { return nil }
	res := r.Delete(context.Background(), 1)
	if res.Status != Confirmed {
		t.Fatalf("status = %v, want Confirmed", res.Status)
	}
	if r.Len() != 0 {
		t.Error("task still present after confirmed delete")
	}
}

func TestDeleteUnknownIDRejected(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1}})

	res := r.Delete(context.Background(), 99)
	if res.Status != Rejected || !errors.Is(res.Err, ErrNotFound) {
		t.Fatalf("got %+v, want Rejected/ErrNotFound", res)
	}
	if r.Len() != 1 {
		t.Error("collection mutated by a rejected delete")
	}
}

func TestRefetchFailureEmptiesCollection(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1}, {ID: 2}})

	store.listFn = func(context.Context) ([]models.Task, error) { return nil, errRemote }
	res := r.RefetchAll(context.Background())
	if res.Status != Failed || !errors.Is(res.Err, errRemote) {
		t.Fatalf("got %+v, want Failed with remote error", res)
	}
	if r.Len() != 0 {
		t.Error("collection not emptied after failed refetch")
	}
}

func TestRefetchReplacesCollection(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1}})

	store.listFn = func(context.Context) ([]models.Task, error) {
		return []models.Task{{ID: 10}, {ID: 11}}, nil
	}
	res := r.RefetchAll(context.Background())
	if res.Status != Confirmed {
		t.Fatalf("status = %v, want Confirmed", res.Status)
	}
	got := r.Tasks()
	if len(got) != 2 || got[0].ID != 10 || got[1].ID != 11 {
		t.Errorf("collection = %v, want the fetched list", got)
	}
}

func TestTasksReturnsACopy(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	seed(t, r, store, []models.Task{{ID: 1, Title: "original"}})

	out := r.Tasks()
	out[0].Title = "tampered"
	if r.Tasks()[0].Title != "original" {
		t.Error("Tasks() exposed internal state")
	}
}
