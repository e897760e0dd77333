// Package catalog holds the built-in workout-level catalog: the exercises
// available per difficulty tier and movement category, with query helpers
// backing the exercises API.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/claude/calistheniq/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var levelsYAML []byte

// Exercise is the flattened catalog view: one exercise with its level and
// category attached, as returned by the flat exercises endpoint.
type Exercise struct {
	models.CatalogExercise `yaml:",inline"`
	Category               models.MovementCategory `json:"category"`
	Level                  int                     `json:"level"`
	LevelName              string                  `json:"level_name"`
	LevelDescription       string                  `json:"level_description,omitempty"`
}

// Builtin parses the embedded catalog. The embedded data is validated by
// tests, so callers treat a parse failure as a programming error.
func Builtin() (models.WorkoutLevels, error) {
	var levels models.WorkoutLevels
	if err := yaml.Unmarshal(levelsYAML, &levels); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return levels, nil
}

// Flatten converts the level map into a flat exercise list ordered by level
// ascending, then canonical category order, preserving in-category order.
func Flatten(levels models.WorkoutLevels) []Exercise {
	var keys []string
	for key := range levels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []Exercise
	for _, key := range keys {
		level := levels[key]
		num := levelNumber(key)
		for _, category := range models.Categories {
			for _, ex := range level.Exercises[category] {
				out = append(out, Exercise{
					CatalogExercise:  ex,
					Category:         category,
					Level:            num,
					LevelName:        level.Name,
					LevelDescription: level.Description,
				})
			}
		}
	}
	return out
}

// Filter narrows a flat list by level and/or category. A nil level or empty
// category means no constraint on that axis.
func Filter(exercises []Exercise, level *int, category models.MovementCategory) []Exercise {
	out := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if level != nil && ex.Level != *level {
			continue
		}
		if category != "" && ex.Category != category {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// Group rebuilds the level-keyed structure from a flat (possibly filtered)
// list, matching the grouped exercises endpoint format.
func Group(exercises []Exercise) models.WorkoutLevels {
	grouped := make(models.WorkoutLevels)
	for _, ex := range exercises {
		key := models.LevelKey(ex.Level)
		level, ok := grouped[key]
		if !ok {
			level = models.WorkoutLevel{
				Name:        ex.LevelName,
				Description: ex.LevelDescription,
				Exercises:   make(map[models.MovementCategory][]models.CatalogExercise),
			}
		}
		level.Exercises[ex.Category] = append(level.Exercises[ex.Category], ex.CatalogExercise)
		grouped[key] = level
	}
	return grouped
}

// levelNumber extracts the numeric suffix from a "levelN" key. Unknown keys
// sort last rather than failing, since imported catalogs are caller data.
func levelNumber(key string) int {
	var n int
	if _, err := fmt.Sscanf(key, "level%d", &n); err != nil {
		return models.MaxLevel + 1
	}
	return n
}
