// Package progress computes weekly workout progress and per-category level
// analysis. Everything here is a pure function over values fetched by the
// caller: no store access, no clock reads, fresh outputs on every call.
package progress

import (
	"time"

	"github.com/claude/calistheniq/internal/models"
)

// WeekDay is one entry of the seven-day frame.
type WeekDay struct {
	Date             time.Time              `json:"date"`
	Label            string                 `json:"label"`
	DayOfMonth       int                    `json:"day_of_month"`
	IsToday          bool                   `json:"is_today"`
	Completed        bool                   `json:"completed"`
	CompletedWorkout *models.WorkoutSession `json:"completed_workout,omitempty"`
	TodayWorkout     *models.WorkoutSession `json:"today_workout,omitempty"`
}

// WeekFrame returns the seven calendar days (Sunday through Saturday) of the
// week containing now, each truncated to midnight in now's location. Exactly
// one day has IsToday set.
func WeekFrame(now time.Time) []WeekDay {
	midnight := startOfDay(now)
	weekStart := midnight.AddDate(0, 0, -int(midnight.Weekday()))

	days := make([]WeekDay, 7)
	for i := range days {
		date := weekStart.AddDate(0, 0, i)
		days[i] = WeekDay{
			Date:       date,
			Label:      date.Format("Mon"),
			DayOfMonth: date.Day(),
			IsToday:    date.Equal(midnight),
		}
	}
	return days
}

// MatchSessions attaches recorded sessions to the frame. A strictly-past day
// with a session on the same calendar date becomes completed; the day marked
// IsToday gets todayPlan attached regardless of any completed session on the
// same date. Future days stay untouched: forward-dated entries are
// informational only. When several sessions share a calendar day the first in
// list order wins.
func MatchSessions(days []WeekDay, sessions []models.WorkoutSession, todayPlan *models.WorkoutSession, now time.Time) []WeekDay {
	midnight := startOfDay(now)

	matched := make([]WeekDay, len(days))
	copy(matched, days)

	for i := range matched {
		day := &matched[i]

		if day.IsToday && todayPlan != nil {
			plan := *todayPlan
			day.TodayWorkout = &plan
		}

		if !day.Date.Before(midnight) {
			continue
		}
		for _, session := range sessions {
			if session.Planned {
				continue
			}
			if sameDay(session.Date, day.Date) {
				match := session
				day.Completed = true
				day.CompletedWorkout = &match
				break
			}
		}
	}
	return matched
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay compares calendar dates, evaluating t in the reference day's
// location so a session logged in another zone lands on the right square.
func sameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	return t.Year() == day.Year() && t.Month() == day.Month() && t.Day() == day.Day()
}
