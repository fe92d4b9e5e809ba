package store

import (
	"context"
	"sync"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
)

// MemoryStore keeps all logs in process memory. It is used for local runs
// (STORE_DRIVER=memory) and in tests. Nothing survives a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	positions []domain.Position
	events    []domain.ExposureEvent
	nextID    int64
	polygons  []domain.Polygon
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (m *MemoryStore) Close() {}

// RecordSample appends pos and the decided event while holding the write lock.
func (m *MemoryStore) RecordSample(ctx context.Context, pos domain.Position, decide domain.DecideFunc) (*domain.ExposureEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("record sample", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.positions = append(m.positions, pos)

	var last *domain.ExposureEvent
	if n := len(m.events); n > 0 {
		cp := m.events[n-1]
		last = &cp
	}

	marker, ok := decide(last)
	if !ok {
		return nil, nil
	}
	ev := domain.ExposureEvent{ID: m.nextID, Timestamp: pos.Timestamp, Marker: marker}
	m.nextID++
	m.events = append(m.events, ev)
	return &ev, nil
}

// AppendExposureEvent writes an event directly, bypassing the state machine.
// Only meant for seeding fixtures.
func (m *MemoryStore) AppendExposureEvent(ts string, marker domain.Marker) domain.ExposureEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev := domain.ExposureEvent{ID: m.nextID, Timestamp: ts, Marker: marker}
	m.nextID++
	m.events = append(m.events, ev)
	return ev
}

// LatestPosition returns the most recently appended position or domain.ErrNoPosition.
func (m *MemoryStore) LatestPosition(ctx context.Context) (domain.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.positions) == 0 {
		return domain.Position{}, domain.ErrNoPosition
	}
	return m.positions[len(m.positions)-1], nil
}

// PositionCount returns the number of stored positions.
func (m *MemoryStore) PositionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions)
}

// LatestExposureEvent returns the most recent event, or nil when the log is empty.
func (m *MemoryStore) LatestExposureEvent(ctx context.Context) (*domain.ExposureEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.events) == 0 {
		return nil, nil
	}
	ev := m.events[len(m.events)-1]
	return &ev, nil
}

// ListExposureEvents returns a copy of the event log in insertion order.
func (m *MemoryStore) ListExposureEvents(ctx context.Context) ([]domain.ExposureEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ExposureEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}

// DeleteExposureEvent removes one event by id and reports whether it existed.
func (m *MemoryStore) DeleteExposureEvent(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, ev := range m.events {
		if ev.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// InsertPolygon stores a polygon or returns domain.ErrDuplicatePolygon.
func (m *MemoryStore) InsertPolygon(ctx context.Context, poly domain.Polygon) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.polygons {
		if p.UUID == poly.UUID {
			return domain.ErrDuplicatePolygon
		}
	}
	m.polygons = append(m.polygons, poly)
	return nil
}

// DeletePolygon removes a polygon by UUID or returns domain.ErrPolygonNotFound.
func (m *MemoryStore) DeletePolygon(ctx context.Context, uuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.polygons {
		if p.UUID == uuid {
			m.polygons = append(m.polygons[:i], m.polygons[i+1:]...)
			return nil
		}
	}
	return domain.ErrPolygonNotFound
}

// GetPolygon loads one polygon by UUID.
func (m *MemoryStore) GetPolygon(ctx context.Context, uuid string) (domain.Polygon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.polygons {
		if p.UUID == uuid {
			return p, nil
		}
	}
	return domain.Polygon{}, domain.ErrPolygonNotFound
}

// ListPolygons returns every stored polygon in insertion order.
func (m *MemoryStore) ListPolygons(ctx context.Context) ([]domain.Polygon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Polygon, len(m.polygons))
	copy(out, m.polygons)
	return out, nil
}
