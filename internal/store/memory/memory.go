// Package memory is a Repository that keeps tasks in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]models.Task
	order  []int64
}

func New() *Repo {
	return &Repo{
		nextID: 1,
		tasks:  make(map[int64]models.Task),
	}
}

func (r *Repo) List(ctx context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, t models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	r.nextID++
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return models.Task{}, store.ErrNotFound
	}
	t = patch.Apply(t)
	r.tasks[id] = t
	return t, nil
}

func (r *Repo) Toggle(ctx context.Context, id int64) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return models.Task{}, store.ErrNotFound
	}
	t.Completed = !t.Completed
	r.tasks[id] = t
	return t, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.tasks, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error { return nil }

func (r *Repo) Close() error { return nil }
