package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/calistheniq/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Store adapter, replacing the original app's
// hosted blob store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres creates a Postgres store with a connection pool.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (p *Postgres) LogWorkout(ctx context.Context, userID int, session models.WorkoutSession) error {
	exercises, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	categories := make([]string, len(session.Categories))
	for i, c := range session.Categories {
		categories[i] = string(c)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, date, duration_min, level, xp_earned, planned, categories, exercises)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		session.ID, userID, session.Date, session.DurationMin, session.Level,
		session.XPEarned, session.Planned, categories, exercises)
	if err != nil {
		return fmt.Errorf("inserting workout session: %w", err)
	}
	return nil
}

func (p *Postgres) ListSessions(ctx context.Context, userID int) ([]models.WorkoutSession, error) {
	return p.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions WHERE user_id = $1 ORDER BY date ASC`, userID)
}

func (p *Postgres) GetWeeklySessions(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error) {
	return p.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions
		 WHERE user_id = $1 AND NOT planned AND date >= $2 AND date < $3
		 ORDER BY date ASC`, userID, start, end)
}

func (p *Postgres) GetTodayPlan(ctx context.Context, userID int, day time.Time) (*models.WorkoutSession, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	sessions, err := p.querySessions(ctx,
		`SELECT id, date, duration_min, level, xp_earned, planned, categories, exercises
		 FROM workout_sessions
		 WHERE user_id = $1 AND planned AND date >= $2 AND date < $3
		 ORDER BY date ASC LIMIT 1`, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (p *Postgres) querySessions(ctx context.Context, query string, args ...any) ([]models.WorkoutSession, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutSession
	for rows.Next() {
		var (
			session    models.WorkoutSession
			id         uuid.UUID
			categories []string
			exercises  []byte
		)
		if err := rows.Scan(&id, &session.Date, &session.DurationMin, &session.Level,
			&session.XPEarned, &session.Planned, &categories, &exercises); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		session.ID = id
		session.Categories = make([]models.MovementCategory, len(categories))
		for i, c := range categories {
			session.Categories[i] = models.MovementCategory(c)
		}
		if err := json.Unmarshal(exercises, &session.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises: %w", err)
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (p *Postgres) GetCurrentLevels(ctx context.Context, userID int) (models.CurrentLevels, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT category, level FROM user_levels WHERE user_id = $1`, userID)
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

func (p *Postgres) SetCurrentLevel(ctx context.Context, userID int, category models.MovementCategory, level int) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO user_levels (user_id, category, level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, category) DO UPDATE SET level = EXCLUDED.level`,
		userID, string(category), level)
	if err != nil {
		return fmt.Errorf("upserting level: %w", err)
	}
	return nil
}

func (p *Postgres) GetWorkoutLevels(ctx context.Context) (models.WorkoutLevels, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM workout_levels WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	var levels models.WorkoutLevels
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return levels, nil
}

func (p *Postgres) SetWorkoutLevels(ctx context.Context, levels models.WorkoutLevels) error {
	data, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO workout_levels (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, data)
	if err != nil {
		return fmt.Errorf("storing catalog: %w", err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context, userID int) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM workout_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM user_levels WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing levels: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
