package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/claude/calistheniq/internal/models"
)

// FavoriteMixed is the favorite-category value when no single category
// dominates the completed week: zero sessions, or a tie at the top.
const FavoriteMixed = "Mixed"

// WeeklyStats are the numbers derived from one matched week frame.
type WeeklyStats struct {
	CompletedDays         int    `json:"completed_days"`
	StreakCount           int    `json:"streak_count"`
	TotalExercises        int    `json:"total_exercises"`
	TotalXP               int    `json:"total_xp"`
	FavoriteCategory      string `json:"favorite_category"`
	WeekCompletionPercent int    `json:"week_completion_percent"`
}

// WeeklyProgress is the full computed result for one week.
type WeeklyProgress struct {
	WeekDays            []WeekDay   `json:"week_days"`
	Stats               WeeklyStats `json:"stats"`
	MotivationalMessage string      `json:"motivational_message"`
	Achievements        []string    `json:"achievements"`
}

// ComputeWeeklyProgress runs the whole pipeline: frame the week containing
// now, match sessions and today's plan onto it, and aggregate. Idempotent for
// a fixed now and session list.
func ComputeWeeklyProgress(now time.Time, sessions []models.WorkoutSession, todayPlan *models.WorkoutSession) WeeklyProgress {
	days := MatchSessions(WeekFrame(now), sessions, todayPlan, now)
	stats := calculateWeeklyStats(days)
	return WeeklyProgress{
		WeekDays:            days,
		Stats:               stats,
		MotivationalMessage: motivationalMessage(stats),
		Achievements:        achievements(stats),
	}
}

func calculateWeeklyStats(days []WeekDay) WeeklyStats {
	stats := WeeklyStats{
		FavoriteCategory: FavoriteMixed,
	}

	categoryCounts := make(map[models.MovementCategory]int)
	for _, day := range days {
		if !day.Completed {
			continue
		}
		stats.CompletedDays++
		if day.CompletedWorkout != nil {
			stats.TotalExercises += len(day.CompletedWorkout.Exercises)
			stats.TotalXP += day.CompletedWorkout.XPEarned
			for _, c := range day.CompletedWorkout.Categories {
				categoryCounts[c]++
			}
		}
	}

	stats.StreakCount = streakCount(days)
	stats.FavoriteCategory = favoriteCategory(categoryCounts)
	stats.WeekCompletionPercent = int(math.Round(float64(stats.CompletedDays) / 7 * 100))
	return stats
}

// streakCount walks backward from the day before today, counting consecutive
// completed days and stopping at the first gap. Without a today marker the
// walk starts at the end of the frame.
func streakCount(days []WeekDay) int {
	start := len(days) - 1
	for i, day := range days {
		if day.IsToday {
			start = i - 1
			break
		}
	}

	streak := 0
	for i := start; i >= 0; i-- {
		if !days[i].Completed {
			break
		}
		streak++
	}
	return streak
}

// favoriteCategory picks the category with the highest occurrence count
// across completed sessions. Any tie at the top, or no data at all, yields
// Mixed.
func favoriteCategory(counts map[models.MovementCategory]int) string {
	best := models.MovementCategory("")
	bestCount, tied := 0, false
	for _, c := range models.Categories {
		n := counts[c]
		switch {
		case n > bestCount:
			best, bestCount, tied = c, n, false
		case n == bestCount && n > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return FavoriteMixed
	}
	return string(best)
}

// motivationalMessage selects exactly one message, evaluating conditions
// top to bottom.
func motivationalMessage(stats WeeklyStats) string {
	switch {
	case stats.CompletedDays == 7:
		return fmt.Sprintf("Perfect week! You completed %d exercises!", stats.TotalExercises)
	case stats.CompletedDays >= 5:
		return fmt.Sprintf("Outstanding effort! %d exercises this week!", stats.TotalExercises)
	case stats.StreakCount >= 3:
		return fmt.Sprintf("Amazing %d-day streak with %d exercises!", stats.StreakCount, stats.TotalExercises)
	case stats.CompletedDays >= 2:
		return fmt.Sprintf("Great progress! %d exercises completed so far!", stats.TotalExercises)
	case stats.CompletedDays == 1:
		return fmt.Sprintf("Good start! Keep building on those %d exercises!", stats.TotalExercises)
	default:
		return "Ready to start your fitness journey? Let's go!"
	}
}

// achievements returns every badge whose condition holds. Unlike the
// motivational message, these are independent checks.
func achievements(stats WeeklyStats) []string {
	var unlocked []string
	if stats.CompletedDays >= 1 {
		unlocked = append(unlocked, "First workout completed!")
	}
	if stats.StreakCount >= 3 {
		unlocked = append(unlocked, "3-day streak achieved!")
	}
	if stats.CompletedDays >= 5 {
		unlocked = append(unlocked, "Week warrior — 5 days done!")
	}
	if stats.CompletedDays == 7 {
		unlocked = append(unlocked, "Perfect week completed!")
	}
	if stats.TotalExercises >= 15 {
		unlocked = append(unlocked, fmt.Sprintf("Exercise master — %d exercises!", stats.TotalExercises))
	}
	if stats.FavoriteCategory != FavoriteMixed {
		unlocked = append(unlocked, fmt.Sprintf("%s specialist!", stats.FavoriteCategory))
	}
	return unlocked
}
