// Package mirror keeps the console's local copy of the task collection,
// keyed by id and kept in server order.
package mirror

import (
	"slices"

	"github.com/tgienger/tick/internal/models"
)

type Mirror struct {
	byID  map[int64]models.Task
	order []int64
}

func New() *Mirror {
	return &Mirror{byID: make(map[int64]models.Task)}
}

// Reset replaces the whole collection
func (m *Mirror) Reset(tasks []models.Task) {
	m.byID = make(map[int64]models.Task, len(tasks))
	m.order = make([]int64, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := m.byID[t.ID]; !dup {
			m.order = append(m.order, t.ID)
		}
		m.byID[t.ID] = t
	}
}

// Upsert replaces the task with the same id in place, or appends it
func (m *Mirror) Upsert(t models.Task) {
	if _, ok := m.byID[t.ID]; !ok {
		m.order = append(m.order, t.ID)
	}
	m.byID[t.ID] = t
}

// Replace swaps in t only if its id is already present. It reports
// whether anything changed.
func (m *Mirror) Replace(t models.Task) bool {
	if _, ok := m.byID[t.ID]; !ok {
		return false
	}
	m.byID[t.ID] = t
	return true
}

// Remove drops id and reports whether it was present
func (m *Mirror) Remove(id int64) bool {
	if _, ok := m.byID[id]; !ok {
		return false
	}
	delete(m.byID, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return true
}

func (m *Mirror) Get(id int64) (models.Task, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// At returns the task at position i in display order
func (m *Mirror) At(i int) (models.Task, bool) {
	if i < 0 || i >= len(m.order) {
		return models.Task{}, false
	}
	return m.byID[m.order[i]], true
}

// Index returns the display position of id, or -1
func (m *Mirror) Index(id int64) int {
	return slices.Index(m.order, id)
}

// Tasks returns a copy of the collection in display order
func (m *Mirror) Tasks() []models.Task {
	out := make([]models.Task, len(m.order))
	for i, id := range m.order {
		out[i] = m.byID[id]
	}
	return out
}

func (m *Mirror) Len() int {
	return len(m.order)
}

// Counts returns the number of completed and remaining tasks
func (m *Mirror) Counts() (completed, remaining int) {
	for _, t := range m.byID {
		if t.Completed {
			completed++
		}
	}
	return completed, len(m.byID) - completed
}
