package server

import (
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/google/uuid"
)

// seedSnapshot builds the demo state: starter levels, completed workouts on
// the two days before now, and a plan for today. Exercises come from the
// built-in catalog at the seeded level.
func seedSnapshot(now time.Time) (models.Snapshot, error) {
	levels, err := catalog.Builtin()
	if err != nil {
		return models.Snapshot{}, err
	}

	snapshot := models.Snapshot{
		CurrentLevels: models.CurrentLevels{
			models.CategoryPush:  1,
			models.CategoryPull:  1,
			models.CategorySquat: 0,
		},
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pushPull := seedSession(day.AddDate(0, 0, -2).Add(9*time.Hour), levels, 1, false,
		models.CategoryPush, models.CategoryPull)
	squat := seedSession(day.AddDate(0, 0, -1).Add(18*time.Hour), levels, 0, false,
		models.CategorySquat)
	todayPlan := seedSession(day.Add(9*time.Hour), levels, 1, true,
		models.CategoryPush)

	snapshot.Sessions = []models.WorkoutSession{pushPull, squat, todayPlan}
	return snapshot, nil
}

func seedSession(date time.Time, levels models.WorkoutLevels, level int, planned bool, categories ...models.MovementCategory) models.WorkoutSession {
	reps := 8
	var exercises []models.ExerciseRecord
	tier := levels[models.LevelKey(level)]
	for _, category := range categories {
		for _, ex := range tier.Exercises[category] {
			sets := make([]models.SetRecord, ex.DefaultSets)
			for i := range sets {
				sets[i] = models.SetRecord{Reps: &reps}
			}
			exercises = append(exercises, models.ExerciseRecord{
				Name:      ex.Name,
				Sets:      sets,
				Tempo:     ex.Tempo,
				RestSec:   ex.RestSec,
				Equipment: ex.Equipment,
			})
		}
	}

	session := models.WorkoutSession{
		ID:          uuid.New(),
		Date:        date,
		DurationMin: 10 * len(exercises),
		Categories:  categories,
		Level:       level,
		Planned:     planned,
		Exercises:   exercises,
	}
	if !planned {
		session.XPEarned = len(exercises) * models.XPPerExercise
	}
	return session
}
