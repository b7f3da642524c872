// Package store owns the task collection: it validates input, assigns
// identity and timestamps, and delegates persistence to a Repository.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tgienger/tick/internal/models"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Repository persists tasks. Implementations return ErrNotFound for
// unknown ids and run every method as a single atomic unit.
type Repository interface {
	List(ctx context.Context) ([]models.Task, error)
	// Insert stores t and returns it with its assigned ID
	Insert(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Toggle(ctx context.Context, id int64) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is the authoritative owner of the task collection
type Store struct {
	repo Repository
	now  func() time.Time

	// createMu keeps created_at non-decreasing with id
	createMu sync.Mutex
	last     time.Time
	seeded   bool
}

type Option func(*Store)

// WithClock replaces the wall clock used for created_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store over repo. The store takes ownership of repo and
// closes it in Close.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all tasks in insertion order
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create validates in and persists a new task
func (s *Store) Create(ctx context.Context, in models.NewTask) (models.Task, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return models.Task{}, err
	}
	if err := validateDescription(in.Description); err != nil {
		return models.Task{}, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if err := s.seed(ctx); err != nil {
		return models.Task{}, err
	}

	return s.repo.Insert(ctx, models.Task{
		Title:       title,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   s.stamp(),
	})
}

// Update replaces the supplied fields of task id
func (s *Store) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if id <= 0 {
		return models.Task{}, &NotFoundError{ID: id}
	}
	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return models.Task{}, err
		}
	}

	t, err := s.repo.Update(ctx, id, patch)
	return t, notFound(err, id)
}

// Toggle flips the completed flag of task id
func (s *Store) Toggle(ctx context.Context, id int64) (models.Task, error) {
	if id <= 0 {
		return models.Task{}, &NotFoundError{ID: id}
	}
	t, err := s.repo.Toggle(ctx, id)
	return t, notFound(err, id)
}

// Delete removes task id permanently
func (s *Store) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &NotFoundError{ID: id}
	}
	return notFound(s.repo.Delete(ctx, id), id)
}

// Ping reports whether the repository is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Close releases the repository
func (s *Store) Close() error {
	return s.repo.Close()
}

// seed starts the clock clamp at the newest stored created_at, so a wall
// clock that moved back across a restart cannot order new rows before old
// ones. Must hold createMu.
func (s *Store) seed(ctx context.Context) error {
	if s.seeded {
		return nil
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if n := len(tasks); n > 0 && tasks[n-1].CreatedAt.After(s.last) {
		s.last = tasks[n-1].CreatedAt.UTC()
	}
	s.seeded = true
	return nil
}

// stamp returns the creation time for the next task. Must hold createMu.
func (s *Store) stamp() time.Time {
	now := s.now().UTC()
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	return now
}

func notFound(err error, id int64) error {
	if errors.Is(err, ErrNotFound) {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nf
		}
		return &NotFoundError{ID: id}
	}
	return err
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLen {
		return "", &ValidationError{Field: "title", Reason: "must be at most 200 characters"}
	}
	return trimmed, nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Reason: "must be at most 1000 characters"}
	}
	return nil
}
