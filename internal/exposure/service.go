// Package exposure serves the read side of the sun-exposure log and the
// shutdown reconciliation that keeps it honest across restarts.
package exposure

import (
	"context"
	"fmt"
	"time"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
)

// EventLog is the slice of the store this package needs.
type EventLog interface {
	ListExposureEvents(ctx context.Context) ([]domain.ExposureEvent, error)
	LatestExposureEvent(ctx context.Context) (*domain.ExposureEvent, error)
	DeleteExposureEvent(ctx context.Context, id int64) (bool, error)
}

// Service reconstructs exposure windows from the event log.
type Service struct {
	log EventLog
	now func() time.Time
}

// NewService builds a Service. A nil now uses time.Now.
func NewService(log EventLog, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{log: log, now: now}
}

// Windows returns every illuminated interval in order. An open interval ends at
// the time of this call. A broken log yields an error matching domain.ErrInconsistentLog.
func (s *Service) Windows(ctx context.Context) ([]domain.Window, error) {
	events, err := s.log.ListExposureEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exposure events: %w", err)
	}
	return domain.BuildWindows(events, s.now())
}

// Reconcile deletes a trailing start so that a later restart opens a fresh
// interval instead of stretching the old one across the downtime.
// It reports whether an event was removed.
func (s *Service) Reconcile(ctx context.Context) (bool, error) {
	last, err := s.log.LatestExposureEvent(ctx)
	if err != nil {
		return false, fmt.Errorf("latest exposure event: %w", err)
	}
	if last == nil || last.Marker != domain.MarkerStart {
		return false, nil
	}

	deleted, err := s.log.DeleteExposureEvent(ctx, last.ID)
	if err != nil {
		return false, fmt.Errorf("delete dangling start %d: %w", last.ID, err)
	}
	return deleted, nil
}
