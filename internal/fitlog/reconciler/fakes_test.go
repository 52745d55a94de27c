package reconciler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fitlog/internal/fitlog/entry"
	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

type summaryKey struct {
	userID string
	day    string
}

type memSummaries struct {
	mu   sync.Mutex
	rows map[summaryKey]summaries.DailySummary
	// afterGet runs outside the lock after every Get
	afterGet func()
}

func newMemSummaries() *memSummaries {
	return &memSummaries{
		rows: make(map[summaryKey]summaries.DailySummary),
	}
}

func (m *memSummaries) Get(_ context.Context, userID string, day time.Time) (*summaries.DailySummary, error) {
	m.mu.Lock()
	row, ok := m.rows[summaryKey{userID, day.Format(time.DateOnly)}]
	m.mu.Unlock()

	if m.afterGet != nil {
		m.afterGet()
	}
	if !ok {
		return nil, summaries.ErrNotFound
	}
	return &row, nil
}

func (m *memSummaries) Upsert(_ context.Context, s summaries.DailySummary) (*summaries.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.rows[summaryKey{s.UserID, s.Date.Format(time.DateOnly)}] = s
	return &s, nil
}

func (m *memSummaries) LatestWeightBefore(_ context.Context, userID string, day time.Time) (*float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		best   *float64
		bestAt time.Time
	)
	for k, row := range m.rows {
		if k.userID != userID || !row.Date.Before(day) || row.Weight == nil {
			continue
		}
		if best == nil || row.Date.After(bestAt) {
			w := *row.Weight
			best, bestAt = &w, row.Date
		}
	}
	return best, nil
}

func (m *memSummaries) put(s summaries.DailySummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[summaryKey{s.UserID, s.Date.Format(time.DateOnly)}] = s
}

func (m *memSummaries) row(userID string, day time.Time) (summaries.DailySummary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[summaryKey{userID, day.Format(time.DateOnly)}]
	return row, ok
}

func (m *memSummaries) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memEvents struct {
	mu     sync.Mutex
	events map[uuid.UUID]events.LogEvent
	clock  time.Time
}

func newMemEvents() *memEvents {
	return &memEvents{
		events: make(map[uuid.UUID]events.LogEvent),
		clock:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memEvents) Add(_ context.Context, e events.LogEvent) (*events.LogEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	e.CreatedAt = m.clock
	m.events[e.ID] = e
	return &e, nil
}

func (m *memEvents) Get(_ context.Context, id uuid.UUID) (*events.LogEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &e, nil
}

func (m *memEvents) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) ListForDay(_ context.Context, userID string, day time.Time) ([]*events.LogEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*events.LogEvent, 0)
	for _, e := range m.events {
		if e.UserID == userID && e.Date.Equal(day) {
			e := e
			list = append(list, &e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (m *memEvents) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type staticProfiles struct {
	profile profiles.Profile
}

func (s staticProfiles) ForUser(_ context.Context, userID string) (profiles.Profile, error) {
	p := s.profile
	p.UserID = userID
	return p, nil
}

type extractorFunc func(ctx context.Context, text string) (entry.Guess, error)

func (f extractorFunc) Extract(ctx context.Context, text string) (entry.Guess, error) {
	return f(ctx, text)
}
