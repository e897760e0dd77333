package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/calistheniq/internal/catalog"
	"github.com/claude/calistheniq/internal/models"
	"github.com/claude/calistheniq/internal/progress"
	"github.com/claude/calistheniq/internal/storage"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

func newTestServer() *Server {
	return New(storage.NewMemory(), testAPIKey, slog.Default())
}

func doJSON(t *testing.T, s *Server, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func testSession(date time.Time, categories ...models.MovementCategory) models.WorkoutSession {
	reps := 8
	return models.WorkoutSession{
		Date:        date,
		DurationMin: 20,
		Categories:  categories,
		Level:       1,
		Exercises: []models.ExerciseRecord{
			{Name: "Incline Push-ups", Sets: []models.SetRecord{{Reps: &reps}}},
			{Name: "Ring Rows", Sets: []models.SetRecord{{Reps: &reps}}},
		},
	}
}

// TestLogWorkout verifies that a valid session is persisted with a server
// assigned ID and default XP, and shows up in the list endpoint.
func TestLogWorkout(t *testing.T) {
	s := newTestServer()
	session := testSession(time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), models.CategoryPush)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	created := decodeBody[models.WorkoutSession](t, rec)
	if created.ID == uuid.Nil {
		t.Error("session ID was not assigned")
	}
	if created.XPEarned != 2*models.XPPerExercise {
		t.Errorf("xp = %d, want %d", created.XPEarned, 2*models.XPPerExercise)
	}

	list := decodeBody[[]models.WorkoutSession](t, doJSON(t, s, http.MethodGet, "/api/v1/workouts", nil, false))
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %d sessions, want the created one", len(list))
	}
}

// TestLogWorkoutRequiresKey verifies the write endpoint sits behind API key auth.
func TestLogWorkoutRequiresKey(t *testing.T) {
	s := newTestServer()
	session := testSession(time.Now(), models.CategoryPush)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestLogWorkoutInvalid verifies validation failures map to 400.
func TestLogWorkoutInvalid(t *testing.T) {
	s := newTestServer()
	session := testSession(time.Now()) // no categories

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

// TestWeeklyProgressEndpoint verifies the endpoint frames the week of the
// given date and marks completed days from stored sessions.
func TestWeeklyProgressEndpoint(t *testing.T) {
	s := newTestServer()
	// Monday of the week containing Wednesday 2026-02-04
	session := testSession(time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), models.CategoryPush)
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, true); rec.Code != http.StatusCreated {
		t.Fatalf("seeding workout: %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/progress/weekly?date=2026-02-04T12:00:00Z", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	result := decodeBody[progress.WeeklyProgress](t, rec)
	if len(result.WeekDays) != 7 {
		t.Fatalf("week has %d days, want 7", len(result.WeekDays))
	}
	if result.Stats.CompletedDays != 1 {
		t.Errorf("completed days = %d, want 1", result.Stats.CompletedDays)
	}
	if !result.WeekDays[1].Completed {
		t.Error("Monday should be completed")
	}
	if !result.WeekDays[3].IsToday {
		t.Error("Wednesday should be marked today")
	}
}

// TestWeeklyProgressBadDate verifies an unparseable date parameter is a 400.
func TestWeeklyProgressBadDate(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/v1/progress/weekly?date=not-a-date", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestLevelEndpoints verifies the get/put level round trip and the derived
// level progress.
func TestLevelEndpoints(t *testing.T) {
	s := newTestServer()

	update := map[models.MovementCategory]int{
		models.CategoryPush: 1,
		models.CategoryPull: 1,
	}
	rec := doJSON(t, s, http.MethodPut, "/api/v1/user/levels", update, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	levels := decodeBody[models.CurrentLevels](t, doJSON(t, s, http.MethodGet, "/api/v1/user/levels", nil, false))
	if levels[models.CategoryPush] != 1 || levels[models.CategorySquat] != 0 {
		t.Errorf("levels = %v", levels)
	}

	lp := decodeBody[progress.LevelProgress](t, doJSON(t, s, http.MethodGet, "/api/v1/progress/levels", nil, false))
	if lp.OverallLevel != 0.7 {
		t.Errorf("overall level = %v, want 0.7", lp.OverallLevel)
	}
	if lp.FocusArea != models.CategorySquat {
		t.Errorf("focus area = %v, want Squat", lp.FocusArea)
	}
}

// TestSetLevelsValidation verifies bad categories and out-of-range levels
// are rejected without partial writes.
func TestSetLevelsValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		body map[string]int
	}{
		{"unknown category", map[string]int{"Cardio": 1}},
		{"level too high", map[string]int{"Push": 9}},
		{"negative level", map[string]int{"Push": -1}},
		{"empty body", map[string]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPut, "/api/v1/user/levels", tt.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	levels := decodeBody[models.CurrentLevels](t, doJSON(t, s, http.MethodGet, "/api/v1/user/levels", nil, false))
	for c, level := range levels {
		if level != 0 {
			t.Errorf("level[%s] = %d after rejected updates, want 0", c, level)
		}
	}
}

// TestExercisesEndpoint verifies flat listing, filtering and the grouped form.
func TestExercisesEndpoint(t *testing.T) {
	s := newTestServer()

	all := decodeBody[[]catalog.Exercise](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises", nil, false))
	if len(all) == 0 {
		t.Fatal("empty catalog")
	}

	filtered := decodeBody[[]catalog.Exercise](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises?level=1&category=Push", nil, false))
	for _, ex := range filtered {
		if ex.Level != 1 || ex.Category != models.CategoryPush {
			t.Errorf("filter leaked %s (level %d, %s)", ex.Name, ex.Level, ex.Category)
		}
	}
	if len(filtered) == 0 {
		t.Error("filter returned nothing for level 1 Push")
	}

	grouped := decodeBody[models.WorkoutLevels](t, doJSON(t, s, http.MethodGet, "/api/v1/exercises?grouped=true", nil, false))
	if _, ok := grouped["level0"]; !ok {
		t.Error("grouped response missing level0")
	}
}

// TestExercisesInvalidParams verifies bad level and category values are 400s.
func TestExercisesInvalidParams(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{
		"/api/v1/exercises?level=9",
		"/api/v1/exercises?level=abc",
		"/api/v1/exercises?category=Cardio",
	} {
		if rec := doJSON(t, s, http.MethodGet, path, nil, false); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

// TestExportImportRoundTrip verifies a snapshot exported from one server can
// be imported into a fresh one with state intact.
func TestExportImportRoundTrip(t *testing.T) {
	src := newTestServer()
	session := testSession(time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), models.CategoryPush)
	if rec := doJSON(t, src, http.MethodPost, "/api/v1/workouts", session, true); rec.Code != http.StatusCreated {
		t.Fatalf("seeding workout: %d", rec.Code)
	}
	if rec := doJSON(t, src, http.MethodPut, "/api/v1/user/levels", map[models.MovementCategory]int{models.CategoryPull: 2}, true); rec.Code != http.StatusOK {
		t.Fatalf("seeding levels: %d", rec.Code)
	}

	snapshot := decodeBody[models.Snapshot](t, doJSON(t, src, http.MethodGet, "/api/v1/export", nil, false))
	if len(snapshot.Sessions) != 1 {
		t.Fatalf("exported %d sessions, want 1", len(snapshot.Sessions))
	}

	dst := newTestServer()
	rec := doJSON(t, dst, http.MethodPost, "/api/v1/import", snapshot, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}

	restored := decodeBody[models.Snapshot](t, doJSON(t, dst, http.MethodGet, "/api/v1/export", nil, false))
	if len(restored.Sessions) != 1 || restored.Sessions[0].ID != snapshot.Sessions[0].ID {
		t.Errorf("restored sessions = %v", restored.Sessions)
	}
	if restored.CurrentLevels[models.CategoryPull] != 2 {
		t.Errorf("restored pull level = %d, want 2", restored.CurrentLevels[models.CategoryPull])
	}
}

// TestImportRejectsInvalid verifies a snapshot with a malformed session is
// rejected before any state is replaced.
func TestImportRejectsInvalid(t *testing.T) {
	s := newTestServer()
	keep := testSession(time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), models.CategoryPush)
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", keep, true); rec.Code != http.StatusCreated {
		t.Fatalf("seeding workout: %d", rec.Code)
	}

	bad := models.Snapshot{
		Sessions: []models.WorkoutSession{{Date: time.Now()}}, // no duration, no categories
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/import", bad, true); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	list := decodeBody[[]models.WorkoutSession](t, doJSON(t, s, http.MethodGet, "/api/v1/workouts", nil, false))
	if len(list) != 1 {
		t.Errorf("existing state lost after rejected import: %d sessions", len(list))
	}
}

// TestSeedEndpoint verifies the demo seed resets state to the expected shape.
func TestSeedEndpoint(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/seed", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	counts := decodeBody[map[string]int](t, rec)
	if counts["sessions_seeded"] != 3 {
		t.Errorf("sessions_seeded = %d, want 3", counts["sessions_seeded"])
	}

	list := decodeBody[[]models.WorkoutSession](t, doJSON(t, s, http.MethodGet, "/api/v1/workouts", nil, false))
	if len(list) != 3 {
		t.Errorf("seeded %d sessions, want 3", len(list))
	}
	levels := decodeBody[models.CurrentLevels](t, doJSON(t, s, http.MethodGet, "/api/v1/user/levels", nil, false))
	if levels[models.CategoryPush] != 1 || levels[models.CategorySquat] != 0 {
		t.Errorf("seeded levels = %v", levels)
	}
}

// TestWorkoutsRangeFilter verifies start/end query filtering on the list.
func TestWorkoutsRangeFilter(t *testing.T) {
	s := newTestServer()
	for day := 1; day <= 3; day++ {
		session := testSession(time.Date(2026, 2, day, 10, 0, 0, 0, time.UTC), models.CategoryPush)
		if rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, true); rec.Code != http.StatusCreated {
			t.Fatalf("seeding workout: %d", rec.Code)
		}
	}

	path := fmt.Sprintf("/api/v1/workouts?start=%s&end=%s", "2026-02-02", "2026-02-02")
	list := decodeBody[[]models.WorkoutSession](t, doJSON(t, s, http.MethodGet, path, nil, false))
	if len(list) != 1 {
		t.Errorf("filtered list = %d sessions, want 1", len(list))
	}
}

// TestWorkoutsEndOnlyFilter verifies that an end bound applies even when no
// start parameter is given.
func TestWorkoutsEndOnlyFilter(t *testing.T) {
	s := newTestServer()
	session := testSession(time.Now().AddDate(0, 0, -2), models.CategoryPush)
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", session, true); rec.Code != http.StatusCreated {
		t.Fatalf("seeding workout: %d", rec.Code)
	}

	list := decodeBody[[]models.WorkoutSession](t, doJSON(t, s, http.MethodGet, "/api/v1/workouts?end=2020-01-01", nil, false))
	if len(list) != 0 {
		t.Errorf("got %d sessions dated after the end bound, want 0", len(list))
	}
}
