package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/claude/calistheniq/internal/models"
)

// Memory is an in-process Store used by tests and by dev mode when no
// database is configured. It replaces the mock data source of the original
// app: same interface as the real adapters, no baked-in demo data.
type Memory struct {
	mu       sync.RWMutex
	sessions map[int][]models.WorkoutSession
	levels   map[int]models.CurrentLevels
	catalog  models.WorkoutLevels
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[int][]models.WorkoutSession),
		levels:   make(map[int]models.CurrentLevels),
	}
}

func (m *Memory) LogWorkout(_ context.Context, userID int, session models.WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = append(m.sessions[userID], session)
	sort.SliceStable(m.sessions[userID], func(i, j int) bool {
		return m.sessions[userID][i].Date.Before(m.sessions[userID][j].Date)
	})
	return nil
}

func (m *Memory) ListSessions(_ context.Context, userID int) ([]models.WorkoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.WorkoutSession, len(m.sessions[userID]))
	copy(out, m.sessions[userID])
	return out, nil
}

func (m *Memory) GetWeeklySessions(_ context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.WorkoutSession
	for _, s := range m.sessions[userID] {
		if s.Planned {
			continue
		}
		if !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) GetTodayPlan(_ context.Context, userID int, day time.Time) (*models.WorkoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions[userID] {
		if !s.Planned {
			continue
		}
		d := s.Date.In(day.Location())
		if d.Year() == day.Year() && d.Month() == day.Month() && d.Day() == day.Day() {
			plan := s
			return &plan, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetCurrentLevels(_ context.Context, userID int) (models.CurrentLevels, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.levels[userID]
	levels := models.DefaultLevels()
	if ok {
		for c, l := range stored {
			levels[c] = l
		}
	}
	return levels, nil
}

func (m *Memory) SetCurrentLevel(_ context.Context, userID int, category models.MovementCategory, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.levels[userID] == nil {
		m.levels[userID] = models.DefaultLevels()
	}
	m.levels[userID][category] = level
	return nil
}

func (m *Memory) GetWorkoutLevels(_ context.Context) (models.WorkoutLevels, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.catalog == nil {
		return nil, ErrNotFound
	}
	return m.catalog, nil
}

func (m *Memory) SetWorkoutLevels(_ context.Context, levels models.WorkoutLevels) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = levels
	return nil
}

func (m *Memory) Clear(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	delete(m.levels, userID)
	return nil
}

func (m *Memory) Close() error { return nil }
