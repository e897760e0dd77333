package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementCategory classifies an exercise by movement pattern.
type MovementCategory string

const (
	CategoryPush  MovementCategory = "Push"
	CategoryPull  MovementCategory = "Pull"
	CategorySquat MovementCategory = "Squat"
)

// Categories lists all movement categories in canonical order. Tie-breaks in
// level analysis resolve to the first category in this order.
var Categories = []MovementCategory{CategoryPush, CategoryPull, CategorySquat}

// Valid reports whether c is a known movement category.
func (c MovementCategory) Valid() bool {
	switch c {
	case CategoryPush, CategoryPull, CategorySquat:
		return true
	}
	return false
}

// MaxLevel is the highest per-category difficulty tier (Expert).
const MaxLevel = 5

// XPPerExercise is the XP awarded per exercise when a logged session carries
// no explicit XP value. Applied once at logging time; aggregation only ever
// sums the stored value.
const XPPerExercise = 15

// SetRecord is one set within an exercise. Exactly one of Reps or
// DurationSec is present: a set is either rep-counted or a timed hold.
type SetRecord struct {
	Reps        *int `json:"reps,omitempty" yaml:"reps,omitempty"`
	DurationSec *int `json:"duration_sec,omitempty" yaml:"duration_sec,omitempty"`
}

// Validate enforces the reps-xor-duration invariant.
func (s SetRecord) Validate() error {
	if s.Reps == nil && s.DurationSec == nil {
		return fmt.Errorf("set has neither reps nor duration")
	}
	if s.Reps != nil && s.DurationSec != nil {
		return fmt.Errorf("set has both reps and duration")
	}
	if s.Reps != nil && *s.Reps <= 0 {
		return fmt.Errorf("set reps must be positive, got %d", *s.Reps)
	}
	if s.DurationSec != nil && *s.DurationSec <= 0 {
		return fmt.Errorf("set duration must be positive, got %d", *s.DurationSec)
	}
	return nil
}

// ExerciseRecord is one exercise performed or planned within a session.
// Tempo, rest, equipment and notes are display-only metadata.
type ExerciseRecord struct {
	Name      string      `json:"name" yaml:"name"`
	Sets      []SetRecord `json:"sets" yaml:"sets"`
	Tempo     string      `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	RestSec   int         `json:"rest_sec,omitempty" yaml:"rest_sec,omitempty"`
	Equipment string      `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Notes     string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// WorkoutSession is a single logged or planned workout. Immutable once
// created; the aggregation core only ever reads these.
type WorkoutSession struct {
	ID          uuid.UUID          `json:"id"`
	Date        time.Time          `json:"date"`
	DurationMin int                `json:"duration_min"`
	Categories  []MovementCategory `json:"categories"`
	Level       int                `json:"level"`
	XPEarned    int                `json:"xp_earned"`
	Planned     bool               `json:"planned,omitempty"`
	Exercises   []ExerciseRecord   `json:"exercises"`
}

// Validate checks the session invariants enforced at the logging boundary:
// positive duration, known non-empty categories, level in range, and every
// set well-formed. Malformed sets are rejected here, never tolerated by the
// aggregator.
func (ws WorkoutSession) Validate() error {
	if ws.Date.IsZero() {
		return fmt.Errorf("session date is required")
	}
	if ws.DurationMin <= 0 {
		return fmt.Errorf("session duration must be positive, got %d", ws.DurationMin)
	}
	if len(ws.Categories) == 0 {
		return fmt.Errorf("session needs at least one category")
	}
	for _, c := range ws.Categories {
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	if ws.Level < 0 || ws.Level > MaxLevel {
		return fmt.Errorf("session level %d out of range [0,%d]", ws.Level, MaxLevel)
	}
	for _, ex := range ws.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("exercise name is required")
		}
		for i, set := range ex.Sets {
			if err := set.Validate(); err != nil {
				return fmt.Errorf("exercise %q set %d: %w", ex.Name, i+1, err)
			}
		}
	}
	return nil
}

// CurrentLevels maps each movement category to the user's difficulty tier,
// 0 (Foundation) through 5 (Expert). Levels are tracked independently.
type CurrentLevels map[MovementCategory]int

// DefaultLevels returns a fresh all-zero level map.
func DefaultLevels() CurrentLevels {
	levels := make(CurrentLevels, len(Categories))
	for _, c := range Categories {
		levels[c] = 0
	}
	return levels
}

// Validate checks that every known category is present and in range.
func (cl CurrentLevels) Validate() error {
	for _, c := range Categories {
		level, ok := cl[c]
		if !ok {
			return fmt.Errorf("missing level for category %q", c)
		}
		if level < 0 || level > MaxLevel {
			return fmt.Errorf("level %d for %q out of range [0,%d]", level, c, MaxLevel)
		}
	}
	return nil
}
