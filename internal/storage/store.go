// Package storage provides the persistence layer behind the progress API:
// a Store interface and three adapters (in-memory, SQLite, PostgreSQL)
// selected at construction via config, never by ambient environment reads.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/claude/calistheniq/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the repository consumed by the HTTP handlers and MCP tools. The
// aggregation core never touches it: callers fetch values here and pass them
// into the pure progress functions.
type Store interface {
	// LogWorkout persists a session record. Records are immutable once
	// written; there is no update path.
	LogWorkout(ctx context.Context, userID int, session models.WorkoutSession) error

	// ListSessions returns every stored session ordered by date ascending.
	ListSessions(ctx context.Context, userID int) ([]models.WorkoutSession, error)

	// GetWeeklySessions returns completed (non-planned) sessions with
	// start <= date < end, ordered by date ascending so that the matcher's
	// first-wins tie-break is deterministic.
	GetWeeklySessions(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error)

	// GetTodayPlan returns the planned session falling on day's calendar
	// date, or nil when none is planned.
	GetTodayPlan(ctx context.Context, userID int, day time.Time) (*models.WorkoutSession, error)

	// GetCurrentLevels returns the per-category level map, defaulting to
	// all zeroes for a user with no stored levels.
	GetCurrentLevels(ctx context.Context, userID int) (models.CurrentLevels, error)

	// SetCurrentLevel updates a single category's level.
	SetCurrentLevel(ctx context.Context, userID int, category models.MovementCategory, level int) error

	// GetWorkoutLevels returns the stored catalog override, or ErrNotFound
	// when the built-in catalog should be used.
	GetWorkoutLevels(ctx context.Context) (models.WorkoutLevels, error)

	// SetWorkoutLevels stores a catalog override (import path).
	SetWorkoutLevels(ctx context.Context, levels models.WorkoutLevels) error

	// Clear removes all of a user's sessions and levels. Catalog overrides
	// are global and survive a user clear.
	Clear(ctx context.Context, userID int) error

	Close() error
}
