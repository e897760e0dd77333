package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/storage"
	"github.com/google/uuid"
)

// TestLocalLogAndWeekly verifies the local data source assigns IDs and XP on
// log and surfaces the session in the weekly computation.
func TestLocalLogAndWeekly(t *testing.T) {
	ctx := context.Background()
	ds := NewLocal(storage.NewMemory())

	reps := 10
	created, err := ds.LogWorkout(ctx, 1, models.WorkoutSession{
		Date:        time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), // Monday
		DurationMin: 25,
		Categories:  []models.MovementCategory{models.CategoryPull},
		Level:       1,
		Exercises: []models.ExerciseRecord{
			{Name: "Ring Rows", Sets: []models.SetRecord{{Reps: &reps}}},
			{Name: "Scapular Pulls", Sets: []models.SetRecord{{Reps: &reps}}},
		},
	})
	if err != nil {
		t.Fatalf("LogWorkout: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("session ID not assigned")
	}
	if created.XPEarned != 2*models.XPPerExercise {
		t.Errorf("xp = %d, want %d", created.XPEarned, 2*models.XPPerExercise)
	}

	weekly, err := ds.GetWeeklyProgress(ctx, time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC), 1)
	if err != nil {
		t.Fatalf("GetWeeklyProgress: %v", err)
	}
	if weekly.Stats.CompletedDays != 1 {
		t.Errorf("completed days = %d, want 1", weekly.Stats.CompletedDays)
	}
	if weekly.Stats.TotalXP != created.XPEarned {
		t.Errorf("total xp = %d, want %d", weekly.Stats.TotalXP, created.XPEarned)
	}
	if weekly.Stats.FavoriteCategory != string(models.CategoryPull) {
		t.Errorf("favorite = %q, want Pull", weekly.Stats.FavoriteCategory)
	}
}

// TestLocalLogRejectsInvalid verifies validation happens before the store is
// touched.
func TestLocalLogRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	ds := NewLocal(store)

	_, err := ds.LogWorkout(ctx, 1, models.WorkoutSession{
		Date:        time.Now(),
		DurationMin: 20,
		// no categories
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	sessions, err := store.ListSessions(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("invalid session was persisted")
	}
}

// TestLocalExercisesFallsBackToBuiltin verifies the built-in catalog serves
// when no override is stored.
func TestLocalExercisesFallsBackToBuiltin(t *testing.T) {
	ctx := context.Background()
	ds := NewLocal(storage.NewMemory())

	level := 0
	exercises, err := ds.GetExercises(ctx, &level, models.CategorySquat)
	if err != nil {
		t.Fatalf("GetExercises: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("no level 0 squat exercises in built-in catalog")
	}
	for _, ex := range exercises {
		if ex.Level != 0 || ex.Category != models.CategorySquat {
			t.Errorf("filter leaked %s (level %d, %s)", ex.Name, ex.Level, ex.Category)
		}
	}
}

// TestLocalQueryWorkoutsRange verifies half-open range filtering.
func TestLocalQueryWorkoutsRange(t *testing.T) {
	ctx := context.Background()
	ds := NewLocal(storage.NewMemory())

	reps := 8
	for day := 1; day <= 3; day++ {
		_, err := ds.LogWorkout(ctx, 1, models.WorkoutSession{
			Date:        time.Date(2026, 2, day, 10, 0, 0, 0, time.UTC),
			DurationMin: 20,
			Categories:  []models.MovementCategory{models.CategoryPush},
			Exercises:   []models.ExerciseRecord{{Name: "Push-ups", Sets: []models.SetRecord{{Reps: &reps}}}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	sessions, err := ds.QueryWorkouts(ctx, start, start.AddDate(0, 0, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(sessions))
	}
}
