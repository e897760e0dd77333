package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/progress"
	"github.com/claude/calistheniq/internal/storage"
	"github.com/google/uuid"
)

// Local implements DataSource over a storage.Store, for MCP mode where the
// binary owns the database directly.
type Local struct {
	store storage.Store
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps a store as an MCP data source.
func NewLocal(store storage.Store) *Local {
	return &Local{store: store}
}

func (l *Local) GetWeeklyProgress(ctx context.Context, now time.Time, userID int) (progress.WeeklyProgress, error) {
	frame := progress.WeekFrame(now)
	weekStart := frame[0].Date

	sessions, err := l.store.GetWeeklySessions(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return progress.WeeklyProgress{}, err
	}
	todayPlan, err := l.store.GetTodayPlan(ctx, userID, now)
	if err != nil {
		return progress.WeeklyProgress{}, err
	}
	return progress.ComputeWeeklyProgress(now, sessions, todayPlan), nil
}

func (l *Local) GetLevelProgress(ctx context.Context, userID int) (progress.LevelProgress, error) {
	levels, err := l.store.GetCurrentLevels(ctx, userID)
	if err != nil {
		return progress.LevelProgress{}, err
	}
	return progress.ComputeLevelProgress(levels), nil
}

func (l *Local) GetCurrentLevels(ctx context.Context, userID int) (models.CurrentLevels, error) {
	return l.store.GetCurrentLevels(ctx, userID)
}

func (l *Local) GetExercises(ctx context.Context, level *int, category models.MovementCategory) ([]catalog.Exercise, error) {
	levels, err := l.store.GetWorkoutLevels(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		levels, err = catalog.Builtin()
	}
	if err != nil {
		return nil, err
	}
	return catalog.Filter(catalog.Flatten(levels), level, category), nil
}

func (l *Local) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutSession, error) {
	sessions, err := l.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, session := range sessions {
		if !session.Date.Before(start) && session.Date.Before(end) {
			out = append(out, session)
		}
	}
	return out, nil
}

func (l *Local) LogWorkout(ctx context.Context, userID int, session models.WorkoutSession) (models.WorkoutSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.XPEarned == 0 && !session.Planned {
		session.XPEarned = len(session.Exercises) * models.XPPerExercise
	}
	if err := session.Validate(); err != nil {
		return models.WorkoutSession{}, err
	}
	if err := l.store.LogWorkout(ctx, userID, session); err != nil {
		return models.WorkoutSession{}, err
	}
	return session, nil
}
