package mcp

import (
	"context"
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/progress"
)

// DataSource abstracts the data layer for MCP tools. Both Local (direct store
// access) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetWeeklyProgress(ctx context.Context, now time.Time, userID int) (progress.WeeklyProgress, error)
	GetLevelProgress(ctx context.Context, userID int) (progress.LevelProgress, error)
	GetCurrentLevels(ctx context.Context, userID int) (models.CurrentLevels, error)
	GetExercises(ctx context.Context, level *int, category models.MovementCategory) ([]catalog.Exercise, error)
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutSession, error)
	LogWorkout(ctx context.Context, userID int, session models.WorkoutSession) (models.WorkoutSession, error)
}
