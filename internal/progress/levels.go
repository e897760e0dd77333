package progress

import (
	"fmt"
	"math"

	"github.com/claude/calistheniq/internal/models"
)

// LevelProgress summarizes per-category levels into an overall picture.
type LevelProgress struct {
	OverallLevel      float64                 `json:"overall_level"`
	StrongestArea     models.MovementCategory `json:"strongest_area"`
	FocusArea         models.MovementCategory `json:"focus_area"`
	ProgressToMastery int                     `json:"progress_to_mastery"`
	Recommendations   []string                `json:"recommendations"`
}

// ComputeLevelProgress derives the level summary from the per-category map.
// Tie-breaks for strongest and focus area resolve to the first category in
// canonical order (Push, Pull, Squat).
func ComputeLevelProgress(levels models.CurrentLevels) LevelProgress {
	total := 0
	for _, c := range models.Categories {
		total += levels[c]
	}

	maxTotal := len(models.Categories) * models.MaxLevel
	return LevelProgress{
		OverallLevel:      math.Round(float64(total)/float64(len(models.Categories))*10) / 10,
		StrongestArea:     strongestArea(levels),
		FocusArea:         focusArea(levels),
		ProgressToMastery: int(math.Round(float64(total) / float64(maxTotal) * 100)),
		Recommendations:   recommendations(levels),
	}
}

func strongestArea(levels models.CurrentLevels) models.MovementCategory {
	best := models.Categories[0]
	for _, c := range models.Categories[1:] {
		if levels[c] > levels[best] {
			best = c
		}
	}
	return best
}

func focusArea(levels models.CurrentLevels) models.MovementCategory {
	weakest := models.Categories[0]
	for _, c := range models.Categories[1:] {
		if levels[c] < levels[weakest] {
			weakest = c
		}
	}
	return weakest
}

// recommendations builds the ordered advice list: conditional lines first,
// then the two lines that always apply.
func recommendations(levels models.CurrentLevels) []string {
	var recs []string

	if levels[models.CategorySquat] == 0 {
		recs = append(recs, "Start with Level 0 Squat exercises focusing on stability and mini-band assistance.")
	}

	minLevel, maxLevel := levels[models.Categories[0]], levels[models.Categories[0]]
	for _, c := range models.Categories[1:] {
		if levels[c] < minLevel {
			minLevel = levels[c]
		}
		if levels[c] > maxLevel {
			maxLevel = levels[c]
		}
	}
	if minLevel < maxLevel {
		recs = append(recs, fmt.Sprintf("Focus on balancing your weakest area (%s) to improve overall strength.", focusArea(levels)))
	}

	recs = append(recs,
		"Master your current level exercises before advancing to prevent injury.",
		"Consider working with your coach to create a balanced progression plan.",
	)
	return recs
}
