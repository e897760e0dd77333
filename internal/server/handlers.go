package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/progress"
	"github.com/claude/calistheniq/internal/storage"
	"github.com/google/uuid"
)

func (s *Server) handleWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	now, err := parseDate(r, time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	frame := progress.WeekFrame(now)
	weekStart := frame[0].Date
	sessions, err := s.store.GetWeeklySessions(r.Context(), defaultUserID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	todayPlan, err := s.store.GetTodayPlan(r.Context(), defaultUserID, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, progress.ComputeWeeklyProgress(now, sessions, todayPlan))
}

func (s *Server) handleLevelProgress(w http.ResponseWriter, r *http.Request) {
	levels, err := s.store.GetCurrentLevels(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, progress.ComputeLevelProgress(levels))
}

func (s *Server) handleGetLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.store.GetCurrentLevels(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

// handleSetLevels applies a partial level update: only the categories present
// in the body change.
func (s *Server) handleSetLevels(w http.ResponseWriter, r *http.Request) {
	var updates map[models.MovementCategory]int
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(updates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no level updates given"})
		return
	}
	for category, level := range updates {
		if !category.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category " + string(category)})
			return
		}
		if level < 0 || level > models.MaxLevel {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "level out of range: " + strconv.Itoa(level)})
			return
		}
	}

	for category, level := range updates {
		if err := s.store.SetCurrentLevel(r.Context(), defaultUserID, category, level); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	levels, err := s.store.GetCurrentLevels(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

// handleLogWorkout validates and persists a session. A missing ID is assigned
// here, and a zero XP value defaults from the exercise count. Both happen at
// the logging boundary only.
func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.XPEarned == 0 && !session.Planned {
		session.XPEarned = len(session.Exercises) * models.XPPerExercise
	}
	if err := session.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.LogWorkout(r.Context(), defaultUserID, session); err != nil {
		s.log.Error("log workout error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	startStr, endStr := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if startStr != "" || endStr != "" {
		start, end, err := models.ParseTimeRange(startStr, endStr, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filtered := make([]models.WorkoutSession, 0, len(sessions))
		for _, session := range sessions {
			if !session.Date.Before(start) && session.Date.Before(end) {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleExercises serves the catalog, either flat or grouped by level. A
// stored catalog override takes precedence over the built-in one.
func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	var level *int
	if v := r.URL.Query().Get("level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxLevel {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid level: " + v})
			return
		}
		level = &n
	}
	category := models.MovementCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category " + string(category)})
		return
	}

	levels, err := s.workoutLevels(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	exercises := catalog.Filter(catalog.Flatten(levels), level, category)
	if r.URL.Query().Get("grouped") == "true" {
		writeJSON(w, http.StatusOK, catalog.Group(exercises))
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) workoutLevels(r *http.Request) (models.WorkoutLevels, error) {
	levels, err := s.store.GetWorkoutLevels(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		return catalog.Builtin()
	}
	return levels, err
}

// handleExport returns the full user state as a snapshot. A catalog override
// is included only when one has been imported.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	levels, err := s.store.GetCurrentLevels(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.store.ListSessions(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snapshot := models.Snapshot{CurrentLevels: levels, Sessions: sessions}

	override, err := s.store.GetWorkoutLevels(r.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snapshot.WorkoutLevels = override

	writeJSON(w, http.StatusOK, snapshot)
}

// handleImport replaces the user state with a snapshot. Everything is
// validated before the existing state is touched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snapshot models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if snapshot.CurrentLevels != nil {
		if err := snapshot.CurrentLevels.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	for i, session := range snapshot.Sessions {
		if session.ID == uuid.Nil {
			snapshot.Sessions[i].ID = uuid.New()
		}
		if err := snapshot.Sessions[i].Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	if err := s.restoreSnapshot(r, snapshot); err != nil {
		s.log.Error("import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"sessions_imported": len(snapshot.Sessions)})
}

func (s *Server) restoreSnapshot(r *http.Request, snapshot models.Snapshot) error {
	ctx := r.Context()
	if err := s.store.Clear(ctx, defaultUserID); err != nil {
		return err
	}
	for category, level := range snapshot.CurrentLevels {
		if err := s.store.SetCurrentLevel(ctx, defaultUserID, category, level); err != nil {
			return err
		}
	}
	for _, session := range snapshot.Sessions {
		if err := s.store.LogWorkout(ctx, defaultUserID, session); err != nil {
			return err
		}
	}
	if snapshot.WorkoutLevels != nil {
		if err := s.store.SetWorkoutLevels(ctx, snapshot.WorkoutLevels); err != nil {
			return err
		}
	}
	return nil
}

// handleSeed resets the user to a demo state: a partially completed week and
// starter levels.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	snapshot, err := seedSnapshot(time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.restoreSnapshot(r, snapshot); err != nil {
		s.log.Error("seed error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sessions_seeded": len(snapshot.Sessions)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDate reads an optional ?date= query parameter, accepting RFC3339 or
// a bare date.
func parseDate(r *http.Request, fallback time.Time) (time.Time, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return fallback, nil
	}
	return models.ParseFlexTime(v)
}
