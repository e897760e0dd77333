package models

import "fmt"

// CatalogExercise is an exercise as it appears in the workout-level catalog,
// carrying prescription defaults rather than a performed set list.
type CatalogExercise struct {
	Name        string `json:"name" yaml:"name"`
	DefaultSets int    `json:"default_sets" yaml:"default_sets"`
	Tempo       string `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	RestSec     int    `json:"rest_sec,omitempty" yaml:"rest_sec,omitempty"`
	Equipment   string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// WorkoutLevel is one difficulty tier of the catalog: a name, a description
// and the exercises available per movement category at that tier.
type WorkoutLevel struct {
	Name        string                                 `json:"name" yaml:"name"`
	Description string                                 `json:"description,omitempty" yaml:"description,omitempty"`
	Exercises   map[MovementCategory][]CatalogExercise `json:"exercises" yaml:"exercises"`
}

// WorkoutLevels maps "level0".."level5" keys to their tier definitions.
type WorkoutLevels map[string]WorkoutLevel

// LevelKey builds the canonical catalog key for a numeric level.
func LevelKey(level int) string {
	return fmt.Sprintf("level%d", level)
}

// Snapshot is the export/import payload: the complete user state plus the
// workout-level catalog, mirroring what the app keeps in its store.
type Snapshot struct {
	CurrentLevels CurrentLevels    `json:"current_levels"`
	Sessions      []WorkoutSession `json:"sessions"`
	WorkoutLevels WorkoutLevels    `json:"workout_levels,omitempty"`
}
