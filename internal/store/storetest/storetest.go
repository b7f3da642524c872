// Package storetest runs the Store contract against any Repository.
package storetest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
)

// NewRepo returns an empty repository for one subtest
type NewRepo func(t *testing.T) store.Repository

func ptr[T any](v T) *T { return &v }

// Run exercises every Store operation against repositories built by newRepo
func Run(t *testing.T, newRepo NewRepo) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s *store.Store)
	}{
		{"ListEmpty", testListEmpty},
		{"CreateAssignsIdentity", testCreateAssignsIdentity},
		{"CreateRejectsBlankTitle", testCreateRejectsBlankTitle},
		{"CreateRejectsLongFields", testCreateRejectsLongFields},
		{"CreateCompleted", testCreateCompleted},
		{"ToggleIsOwnInverse", testToggleIsOwnInverse},
		{"PartialUpdate", testPartialUpdate},
		{"UpdateRejectsBlankTitle", testUpdateRejectsBlankTitle},
		{"EmptyPatch", testEmptyPatch},
		{"NotFound", testNotFound},
		{"DeleteThenList", testDeleteThenList},
		{"IDsNeverReused", testIDsNeverReused},
		{"Scenario", testScenario},
		{"ConcurrentToggles", testConcurrentToggles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New(newRepo(t))
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

func mustCreate(t *testing.T, s *store.Store, title, desc string) models.Task {
	t.Helper()
	task, err := s.Create(context.Background(), models.NewTask{Title: title, Description: desc})
	if err != nil {
		t.Fatalf("Create(%q) err = %v, want nil", title, err)
	}
	return task
}

func mustList(t *testing.T, s *store.Store) []models.Task {
	t.Helper()
	tasks, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() err = %v, want nil", err)
	}
	return tasks
}

func testListEmpty(t *testing.T, s *store.Store) {
	tasks := mustList(t, s)
	if tasks == nil {
		t.Fatal("List() = nil, want empty slice")
	}
	if len(tasks) != 0 {
		t.Fatalf("len(List()) = %d, want 0", len(tasks))
	}
}

func testCreateAssignsIdentity(t *testing.T, s *store.Store) {
	a := mustCreate(t, s, "  first  ", "d1")
	b := mustCreate(t, s, "second", "")

	if a.ID <= 0 || b.ID <= 0 || a.ID == b.ID {
		t.Fatalf("ids = %d, %d, want distinct positive ids", a.ID, b.ID)
	}
	if a.Title != "first" {
		t.Errorf("Title = %q, want %q", a.Title, "first")
	}
	if a.Completed {
		t.Error("Completed = true, want false")
	}
	if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
		t.Fatal("CreatedAt is zero")
	}
	if b.CreatedAt.Before(a.CreatedAt) {
		t.Errorf("created_at went backwards: %v then %v", a.CreatedAt, b.CreatedAt)
	}

	tasks := mustList(t, s)
	if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("List() = %+v, want [%d %d] in insertion order", tasks, a.ID, b.ID)
	}
	if tasks[1].Description != "" {
		t.Errorf("Description = %q, want empty", tasks[1].Description)
	}
}

func testCreateRejectsBlankTitle(t *testing.T, s *store.Store) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(context.Background(), models.NewTask{Title: title})
		if !errors.Is(err, store.ErrValidation) {
			t.Fatalf("Create(%q) err = %v, want ErrValidation", title, err)
		}
		var ve *store.ValidationError
		if !errors.As(err, &ve) || ve.Field != "title" {
			t.Fatalf("Create(%q) err = %#v, want *ValidationError on title", title, err)
		}
	}
	if n := len(mustList(t, s)); n != 0 {
		t.Fatalf("len(List()) = %d after rejected creates, want 0", n)
	}
}

func testCreateRejectsLongFields(t *testing.T, s *store.Store) {
	ctx := context.Background()
	_, err := s.Create(ctx, models.NewTask{Title: strings.Repeat("a", store.MaxTitleLen+1)})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("long title err = %v, want ErrValidation", err)
	}
	_, err = s.Create(ctx, models.NewTask{Title: "ok", Description: strings.Repeat("d", store.MaxDescriptionLen+1)})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("long description err = %v, want ErrValidation", err)
	}
}

func testCreateCompleted(t *testing.T, s *store.Store) {
	task, err := s.Create(context.Background(), models.NewTask{Title: "done already", Completed: true})
	if err != nil {
		t.Fatalf("Create() err = %v", err)
	}
	if !task.Completed {
		t.Fatal("Completed = false, want true")
	}
}

func testToggleIsOwnInverse(t *testing.T, s *store.Store) {
	ctx := context.Background()
	orig := mustCreate(t, s, "toggle me", "")

	once, err := s.Toggle(ctx, orig.ID)
	if err != nil {
		t.Fatalf("Toggle() err = %v", err)
	}
	if once.Completed == orig.Completed {
		t.Fatal("Toggle() did not flip completed")
	}
	twice, err := s.Toggle(ctx, orig.ID)
	if err != nil {
		t.Fatalf("Toggle() err = %v", err)
	}
	if twice.Completed != orig.Completed {
		t.Fatalf("Toggle(Toggle()) completed = %v, want %v", twice.Completed, orig.Completed)
	}
	if !twice.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", orig.CreatedAt, twice.CreatedAt)
	}
}

func testPartialUpdate(t *testing.T, s *store.Store) {
	ctx := context.Background()
	orig := mustCreate(t, s, "title", "desc")

	got, err := s.Update(ctx, orig.ID, models.TaskPatch{Completed: ptr(true)})
	if err != nil {
		t.Fatalf("Update() err = %v", err)
	}
	if got.Title != "title" || got.Description != "desc" || !got.Completed {
		t.Fatalf("Update(completed) = %+v, want title/description unchanged", got)
	}

	got, err = s.Update(ctx, orig.ID, models.TaskPatch{Description: ptr("")})
	if err != nil {
		t.Fatalf("Update() err = %v", err)
	}
	if got.Title != "title" || got.Description != "" || !got.Completed {
		t.Fatalf("Update(description) = %+v", got)
	}
	if got.ID != orig.ID || !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatalf("identity changed: %+v -> %+v", orig, got)
	}
}

func testUpdateRejectsBlankTitle(t *testing.T, s *store.Store) {
	ctx := context.Background()
	orig := mustCreate(t, s, "keep", "")

	_, err := s.Update(ctx, orig.ID, models.TaskPatch{Title: ptr("  "), Completed: ptr(true)})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("Update() err = %v, want ErrValidation", err)
	}
	tasks := mustList(t, s)
	if tasks[0].Title != "keep" || tasks[0].Completed {
		t.Fatalf("rejected update changed the task: %+v", tasks[0])
	}
}

func testEmptyPatch(t *testing.T, s *store.Store) {
	orig := mustCreate(t, s, "same", "d")
	got, err := s.Update(context.Background(), orig.ID, models.TaskPatch{})
	if err != nil {
		t.Fatalf("Update() err = %v", err)
	}
	if got.Title != orig.Title || got.Description != orig.Description || got.Completed != orig.Completed {
		t.Fatalf("Update({}) = %+v, want %+v", got, orig)
	}
}

func testNotFound(t *testing.T, s *store.Store) {
	ctx := context.Background()
	for _, id := range []int64{0, -1, 4242} {
		if _, err := s.Toggle(ctx, id); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Toggle(%d) err = %v, want ErrNotFound", id, err)
		}
		if _, err := s.Update(ctx, id, models.TaskPatch{Title: ptr("x")}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Update(%d) err = %v, want ErrNotFound", id, err)
		}
		if _, err := s.Update(ctx, id, models.TaskPatch{}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Update(%d, {}) err = %v, want ErrNotFound", id, err)
		}
		err := s.Delete(ctx, id)
		var nf *store.NotFoundError
		if !errors.As(err, &nf) || nf.ID != id {
			t.Errorf("Delete(%d) err = %#v, want *NotFoundError{%d}", id, err, id)
		}
	}
}

func testDeleteThenList(t *testing.T, s *store.Store) {
	ctx := context.Background()
	a := mustCreate(t, s, "a", "")
	b := mustCreate(t, s, "b", "")

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() err = %v", err)
	}
	for _, task := range mustList(t, s) {
		if task.ID == a.ID {
			t.Fatalf("deleted id %d still listed", a.ID)
		}
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second Delete() err = %v, want ErrNotFound", err)
	}
	if tasks := mustList(t, s); len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Fatalf("List() = %+v, want only %d", tasks, b.ID)
	}
}

func testIDsNeverReused(t *testing.T, s *store.Store) {
	ctx := context.Background()
	a := mustCreate(t, s, "a", "")
	b := mustCreate(t, s, "b", "")
	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() err = %v", err)
	}
	c := mustCreate(t, s, "c", "")
	if c.ID == a.ID || c.ID == b.ID {
		t.Fatalf("id %d reused (a=%d b=%d)", c.ID, a.ID, b.ID)
	}
	if c.ID < b.ID {
		t.Fatalf("id %d lower than deleted id %d", c.ID, b.ID)
	}
}

func testScenario(t *testing.T, s *store.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, models.NewTask{Title: "Buy milk", Description: "", Completed: false})
	if err != nil {
		t.Fatalf("Create() err = %v", err)
	}
	if created.Title != "Buy milk" || created.Completed {
		t.Fatalf("Create() = %+v", created)
	}

	toggled, err := s.Toggle(ctx, created.ID)
	if err != nil || !toggled.Completed || toggled.ID != created.ID {
		t.Fatalf("Toggle() = %+v, %v", toggled, err)
	}

	updated, err := s.Update(ctx, created.ID, models.TaskPatch{Title: ptr("Buy oat milk")})
	if err != nil {
		t.Fatalf("Update() err = %v", err)
	}
	if updated.Title != "Buy oat milk" || !updated.Completed {
		t.Fatalf("Update() = %+v, want title changed and still completed", updated)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() err = %v", err)
	}
	if n := len(mustList(t, s)); n != 0 {
		t.Fatalf("len(List()) = %d, want 0", n)
	}
}

func testConcurrentToggles(t *testing.T, s *store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	task := mustCreate(t, s, "busy", "")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Toggle(ctx, task.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Toggle() err = %v", err)
	}

	// an even number of atomic toggles lands back where it started
	tasks := mustList(t, s)
	if tasks[0].Completed != task.Completed {
		t.Fatalf("Completed = %v after %d toggles, want %v", tasks[0].Completed, n, task.Completed)
	}
}
