package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
)

const taskColumns = "id, title, description, completed, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		return models.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

// List returns all tasks ordered by id
func (db *DB) List(ctx context.Context) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Insert creates a new task row and returns it as stored
func (db *DB) Insert(ctx context.Context, t models.Task) (models.Task, error) {
	var out models.Task
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		id, err := db.insertTask(ctx, tx, t)
		if err != nil {
			return err
		}
		out, err = getTask(ctx, tx, db.rebind, id)
		return err
	})
	return out, err
}

func (db *DB) insertTask(ctx context.Context, tx *sql.Tx, t models.Task) (int64, error) {
	const q = `INSERT INTO tasks (title, description, completed, created_at) VALUES (?, ?, ?, ?)`

	if db.driver == DriverPostgres {
		var id int64
		err := tx.QueryRowContext(ctx, db.rebind(q+" RETURNING id"),
			t.Title, t.Description, t.Completed, t.CreatedAt).Scan(&id)
		return id, err
	}

	result, err := tx.ExecContext(ctx, q, t.Title, t.Description, t.Completed, t.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Update replaces the fields set in patch
func (db *DB) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}

	var out models.Task
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if len(sets) > 0 {
			q := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
			if err := execOne(ctx, tx, db.rebind(q), append(args, id)...); err != nil {
				return err
			}
		}
		var err error
		out, err = getTask(ctx, tx, db.rebind, id)
		return err
	})
	return out, err
}

// Toggle negates the completed flag
func (db *DB) Toggle(ctx context.Context, id int64) (models.Task, error) {
	var out models.Task
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := execOne(ctx, tx, db.rebind("UPDATE tasks SET completed = NOT completed WHERE id = ?"), id); err != nil {
			return err
		}
		var err error
		out, err = getTask(ctx, tx, db.rebind, id)
		return err
	})
	return out, err
}

// Delete deletes a task
func (db *DB) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, db.DB, db.rebind("DELETE FROM tasks WHERE id = ?"), id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execOne runs a statement that must touch exactly one row
func execOne(ctx context.Context, e execer, query string, args ...any) error {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func getTask(ctx context.Context, tx *sql.Tx, rebind func(string) string, id int64) (models.Task, error) {
	row := tx.QueryRowContext(ctx, rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, store.ErrNotFound
	}
	return t, err
}

func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
