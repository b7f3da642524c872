package db

import (
	"context"
	"os"
	"testing"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/store/storetest"
)

func TestSQLite_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		db, err := Open(context.Background(), DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("Open() err = %v", err)
		}
		return db
	})
}

func TestSQLite_FilePersists(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/tick.db"

	db, err := Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open() err = %v", err)
	}
	s := store.New(db)
	created, err := s.Create(ctx, newTask("persist me"))
	if err != nil {
		t.Fatalf("Create() err = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() err = %v", err)
	}

	db, err = Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopen err = %v", err)
	}
	defer db.Close()

	tasks, err := db.List(ctx)
	if err != nil {
		t.Fatalf("List() err = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID || tasks[0].Title != "persist me" {
		t.Fatalf("List() = %+v, want the created task", tasks)
	}
	if !tasks[0].CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", tasks[0].CreatedAt, created.CreatedAt)
	}
}

func TestPostgres_Contract(t *testing.T) {
	dsn := os.Getenv("TICK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TICK_TEST_POSTGRES_DSN not set (integration test)")
	}

	storetest.Run(t, func(t *testing.T) store.Repository {
		ctx := context.Background()
		db, err := Open(ctx, DriverPostgres, dsn)
		if err != nil {
			t.Fatalf("Open() err = %v", err)
		}
		if _, err := db.ExecContext(ctx, "TRUNCATE tasks RESTART IDENTITY"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return db
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Fatal("Open(mysql) err = nil, want error")
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	got := pg.rebind("UPDATE tasks SET title = ?, completed = ? WHERE id = ?")
	want := "UPDATE tasks SET title = $1, completed = $2 WHERE id = $3"
	if got != want {
		t.Fatalf("rebind() = %q, want %q", got, want)
	}

	lite := &DB{driver: DriverSQLite}
	if got := lite.rebind("WHERE id = ?"); got != "WHERE id = ?" {
		t.Fatalf("sqlite rebind() = %q, want unchanged", got)
	}
}

func newTask(title string) models.NewTask {
	return models.NewTask{Title: title}
}
