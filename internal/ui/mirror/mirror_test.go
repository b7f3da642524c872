package mirror

import (
	"testing"

	"github.com/tgienger/tick/internal/models"
)

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMirror_ResetKeepsOrder(t *testing.T) {
	m := New()
	m.Reset([]models.Task{{ID: 3}, {ID: 1}, {ID: 2}})

	if got := ids(m.Tasks()); !equalIDs(got, []int64{3, 1, 2}) {
		t.Fatalf("Tasks() = %v, want [3 1 2]", got)
	}

	m.Reset(nil)
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after Reset(nil), want 0", m.Len())
	}
}

func TestMirror_UpsertAppendsOrReplaces(t *testing.T) {
	m := New()
	m.Reset([]models.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}})

	m.Upsert(models.Task{ID: 1, Title: "a2"})
	m.Upsert(models.Task{ID: 5, Title: "e"})

	if got := ids(m.Tasks()); !equalIDs(got, []int64{1, 2, 5}) {
		t.Fatalf("Tasks() = %v, want [1 2 5]", got)
	}
	if task, _ := m.Get(1); task.Title != "a2" {
		t.Fatalf("Get(1).Title = %q, want a2", task.Title)
	}
}

func TestMirror_ReplaceIgnoresUnknown(t *testing.T) {
	m := New()
	m.Reset([]models.Task{{ID: 1}})

	if m.Replace(models.Task{ID: 9}) {
		t.Fatal("Replace(unknown) = true, want false")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if !m.Replace(models.Task{ID: 1, Completed: true}) {
		t.Fatal("Replace(1) = false, want true")
	}
	if task, _ := m.Get(1); !task.Completed {
		t.Fatal("Replace did not store the new value")
	}
}

func TestMirror_Remove(t *testing.T) {
	m := New()
	m.Reset([]models.Task{{ID: 1}, {ID: 2}, {ID: 3}})

	if !m.Remove(2) {
		t.Fatal("Remove(2) = false, want true")
	}
	if m.Remove(2) {
		t.Fatal("second Remove(2) = true, want false")
	}
	if got := ids(m.Tasks()); !equalIDs(got, []int64{1, 3}) {
		t.Fatalf("Tasks() = %v, want [1 3]", got)
	}
	if m.Index(3) != 1 || m.Index(2) != -1 {
		t.Fatalf("Index(3)=%d Index(2)=%d", m.Index(3), m.Index(2))
	}
	if task, ok := m.At(1); !ok || task.ID != 3 {
		t.Fatalf("At(1) = %+v, %v", task, ok)
	}
	if _, ok := m.At(2); ok {
		t.Fatal("At(2) ok = true past the end")
	}
}

func TestMirror_Counts(t *testing.T) {
	m := New()
	m.Reset([]models.Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}})

	done, left := m.Counts()
	if done != 1 || left != 2 {
		t.Fatalf("Counts() = %d, %d, want 1, 2", done, left)
	}

	m.Replace(models.Task{ID: 2, Completed: true})
	m.Remove(3)
	done, left = m.Counts()
	if done != 2 || left != 0 {
		t.Fatalf("Counts() = %d, %d, want 2, 0", done, left)
	}
}
