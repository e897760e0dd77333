package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/calistheniq/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is the single-file Store adapter: the local-mode analog of the
// original app's browser localStorage backend. Schema is created on open.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// The sqlite driver allows one writer; serialize access through a
	// single connection to avoid SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS workout_sessions (
		id           TEXT PRIMARY KEY,
		user_id      INTEGER NOT NULL,
		date         INTEGER NOT NULL,
		duration_min INTEGER NOT NULL,
		level        INTEGER NOT NULL,
		xp_earned    INTEGER NOT NULL,
		planned      INTEGER NOT NULL DEFAULT 0,
		categories   TEXT NOT NULL,
		exercises    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON workout_sessions (user_id, date);
	CREATE TABLE IF NOT EXISTS user_levels (
		user_id  INTEGER NOT NULL,
		category TEXT NOT NULL,
		level    INTEGER NOT NULL,
		PRIMARY KEY (user_id, category)
	);
	CREATE TABLE IF NOT EXISTS workout_levels (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LogWorkout(ctx context.Context, userID int, session models.WorkoutSession) error {
	categories, err := json.Marshal(session.Categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	exercises, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workout_sessions (id, user_id, date, duration_min, level, xp_earned, planned, categories, exercises)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID.String(), userID, session.Date.UnixNano(),
		session.DurationMin, session.Level, session.XPEarned, boolToInt(session.Planned),
		string(categories), string(exercises))
	if err != nil {
		return fmt.Errorf("inserting workout session: %w", err)
	}
	return nil
}

func (s *SQLite) ListSessions(ctx context.Context, userID int) ([]models.WorkoutSession, error) {
	return s.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions WHERE user_id = ? ORDER BY date ASC`, userID)
}

func (s *SQLite) GetWeeklySessions(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error) {
	return s.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions
		 WHERE user_id = ? AND planned = 0 AND date >= ? AND date < ?
		 ORDER BY date ASC`,
		userID, start.UnixNano(), end.UnixNano())
}

func (s *SQLite) GetTodayPlan(ctx context.Context, userID int, day time.Time) (*models.WorkoutSession, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	sessions, err := s.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions
		 WHERE user_id = ? AND planned = 1 AND date >= ? AND date < ?
		 ORDER BY date ASC LIMIT 1`,
		userID, dayStart.UnixNano(), dayStart.AddDate(0, 0, 1).UnixNano())
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (s *SQLite) querySessions(ctx context.Context, query string, args ...any) ([]models.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func scanSession(rows *sql.Rows) (models.WorkoutSession, error) {
	var (
		session               models.WorkoutSession
		id                    string
		dateNanos             int64
		planned               int
		categories, exercises string
	)
	if err := rows.Scan(&id, &dateNanos, &session.DurationMin, &session.Level,
		&session.XPEarned, &planned, &categories, &exercises); err != nil {
		return session, fmt.Errorf("scanning session: %w", err)
	}

	var err error
	if session.ID, err = uuid.Parse(id); err != nil {
		return session, fmt.Errorf("parsing session id %q: %w", id, err)
	}
	session.Date = time.Unix(0, dateNanos).UTC()
	session.Planned = planned != 0
	if err := json.Unmarshal([]byte(categories), &session.Categories); err != nil {
		return session, fmt.Errorf("decoding categories: %w", err)
	}
	if err := json.Unmarshal([]byte(exercises), &session.Exercises); err != nil {
		return session, fmt.Errorf("decoding exercises: %w", err)
	}
	return session, nil
}

func (s *SQLite) GetCurrentLevels(ctx context.Context, userID int) (models.CurrentLevels, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, level FROM user_levels WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying levels: %w", err)
	}
	defer rows.Close()

	levels := models.DefaultLevels()
	for rows.Next() {
		var category string
		var level int
		if err := rows.Scan(&category, &level); err != nil {
			return nil, fmt.Errorf("scanning level: %w", err)
		}
		levels[models.MovementCategory(category)] = level
	}
	return levels, rows.Err()
}

func (s *SQLite) SetCurrentLevel(ctx context.Context, userID int, category models.MovementCategory, level int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_levels (user_id, category, level) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET level = excluded.level`,
		userID, string(category), level)
	if err != nil {
		return fmt.Errorf("upserting level: %w", err)
	}
	return nil
}

func (s *SQLite) GetWorkoutLevels(ctx context.Context) (models.WorkoutLevels, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM workout_levels WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	var levels models.WorkoutLevels
	if err := json.Unmarshal([]byte(data), &levels); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return levels, nil
}

func (s *SQLite) SetWorkoutLevels(ctx context.Context, levels models.WorkoutLevels) error {
	data, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workout_levels (id, data) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data`, string(data))
	if err != nil {
		return fmt.Errorf("storing catalog: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context, userID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workout_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_levels WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing levels: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
