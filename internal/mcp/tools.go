package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claude/calistheniq/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseCategories splits a comma-separated category list and validates each
// entry.
func parseCategories(s string) ([]models.MovementCategory, error) {
	var out []models.MovementCategory
	for _, part := range strings.Split(s, ",") {
		c := models.MovementCategory(strings.TrimSpace(part))
		if c == "" {
			continue
		}
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category %q (valid: Push, Pull, Squat)", c)
		}
		out = append(out, c)
	}
	return out, nil
}

// --- Tool definitions ---

var toolGetWeeklyProgress = mcp.NewTool("get_weekly_progress",
	mcp.WithDescription("Get the current week's progress: the seven-day frame with completed workouts, streak, XP, favorite category, motivational message and achievements."),
	mcp.WithString("date", mcp.Description("Reference date (ISO 8601 or YYYY-MM-DD). Defaults to now. The week containing this date is analyzed.")),
)

var toolGetLevelProgress = mcp.NewTool("get_level_progress",
	mcp.WithDescription("Get the level analysis: overall level, strongest area, focus area, progress to mastery and training recommendations."),
)

var toolGetCurrentLevels = mcp.NewTool("get_current_levels",
	mcp.WithDescription("Get the user's current difficulty level (0-5) per movement category."),
)

var toolGetExercises = mcp.NewTool("get_exercises",
	mcp.WithDescription("Browse the exercise catalog, optionally narrowed to one difficulty level and/or movement category."),
	mcp.WithString("level", mcp.Description("Difficulty level 0-5"), mcp.Enum("0", "1", "2", "3", "4", "5")),
	mcp.WithString("category", mcp.Description("Movement category"), mcp.Enum("Push", "Pull", "Squat")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query logged workout sessions in a date range, including exercises and sets."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD; a bare date includes that whole day). Defaults to now.")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a completed workout session. XP is assigned automatically from the exercise count unless given."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Session date (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithNumber("duration_min", mcp.Required(), mcp.Description("Session duration in minutes")),
	mcp.WithString("categories", mcp.Required(), mcp.Description("Comma-separated movement categories (Push, Pull, Squat)")),
	mcp.WithNumber("level", mcp.Description("Difficulty level 0-5. Defaults to 0.")),
	mcp.WithString("exercises", mcp.Description(`Exercises as a JSON array, e.g. [{"name":"Push-ups","sets":[{"reps":10},{"reps":8}]}]`)),
)

// --- Tool handlers ---

func (h *handlers) getWeeklyProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	if dateStr := req.GetString("date", ""); dateStr != "" {
		var err error
		now, err = models.ParseFlexTime(dateStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	uid := UserIDFromContext(ctx)
	weekly, err := h.ds.GetWeeklyProgress(ctx, now, uid)
	if err != nil {
		h.log.Error("mcp get_weekly_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(weekly)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLevelProgress(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	lp, err := h.ds.GetLevelProgress(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_level_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(lp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentLevels(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	levels, err := h.ds.GetCurrentLevels(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_current_levels", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(levels)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var level *int
	if levelStr := req.GetString("level", ""); levelStr != "" {
		n, err := strconv.Atoi(levelStr)
		if err != nil || n < 0 || n > models.MaxLevel {
			return mcp.NewToolResultError("invalid level: " + levelStr), nil
		}
		level = &n
	}

	category := models.MovementCategory(req.GetString("category", ""))
	if category != "" && !category.Valid() {
		return mcp.NewToolResultError("unknown category " + string(category)), nil
	}

	exercises, err := h.ds.GetExercises(ctx, level, category)
	if err != nil {
		h.log.Error("mcp get_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := models.ParseTimeRange(req.GetString("start", ""), req.GetString("end", ""), time.Now())
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.QueryWorkouts(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := models.ParseFlexTime(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	durationMin, err := req.RequireInt("duration_min")
	if err != nil {
		return mcp.NewToolResultError("duration_min parameter is required"), nil
	}

	categoriesStr, err := req.RequireString("categories")
	if err != nil {
		return mcp.NewToolResultError("categories parameter is required"), nil
	}
	categories, err := parseCategories(categoriesStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var exercises []models.ExerciseRecord
	if exercisesJSON := req.GetString("exercises", ""); exercisesJSON != "" {
		if err := json.Unmarshal([]byte(exercisesJSON), &exercises); err != nil {
			return mcp.NewToolResultError("invalid exercises JSON: " + err.Error()), nil
		}
	}

	session := models.WorkoutSession{
		Date:        date,
		DurationMin: durationMin,
		Categories:  categories,
		Level:       req.GetInt("level", 0),
		Exercises:   exercises,
	}

	uid := UserIDFromContext(ctx)
	created, err := h.ds.LogWorkout(ctx, uid, session)
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("log failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(created)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
