// Package poller runs the fetch → decide → append cycle against the ISS telemetry source.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
	"github.com/PratikDhanave/iss-tracker-service/internal/metrics"
	"github.com/PratikDhanave/iss-tracker-service/internal/store"
	"github.com/PratikDhanave/iss-tracker-service/internal/telemetry"
)

// DefaultInterval is the fixed delay between cycles.
const DefaultInterval = 20 * time.Second

// Failure classes reported by Classify.
const (
	ResultOK          = "ok"
	ResultTransport   = "transport"
	ResultProtocol    = "protocol"
	ResultPersistence = "persistence"
	ResultUnknown     = "unknown"
)

// Fetcher returns one telemetry snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (telemetry.Snapshot, error)
}

// Recorder persists a sample and the event decided for it as one unit.
type Recorder interface {
	RecordSample(ctx context.Context, pos domain.Position, decide domain.DecideFunc) (*domain.ExposureEvent, error)
}

// Config controls the poll loop.
type Config struct {
	Interval time.Duration
}

// Poller owns the background loop. It is the only writer of the position and exposure logs.
type Poller struct {
	fetcher  Fetcher
	recorder Recorder
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Poller. A non-positive interval falls back to DefaultInterval.
func New(fetcher Fetcher, recorder Recorder, cfg Config, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		fetcher:  fetcher,
		recorder: recorder,
		interval: cfg.Interval,
		logger:   logger,
	}
}

// RunOnce performs a single cycle and returns the event it appended, if any.
// Nothing is written unless the fetch succeeded.
func (p *Poller) RunOnce(ctx context.Context) (*domain.ExposureEvent, error) {
	started := time.Now()
	snap, err := p.fetcher.Fetch(ctx)
	metrics.ObserveFetch(time.Since(started))
	if err != nil {
		return nil, err
	}

	pos := domain.Position{
		Timestamp: snap.Timestamp,
		Latitude:  snap.Latitude,
		Longitude: snap.Longitude,
	}
	return p.recorder.RecordSample(ctx, pos, domain.DecideFor(domain.Visibility(snap.Visibility)))
}

// Run cycles until ctx is cancelled. The first cycle starts immediately; after
// every cycle, failed or not, it waits the same fixed interval.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", "interval_seconds", p.interval.Seconds())
	defer p.logger.Info("poller stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		p.cycle(ctx)
		timer.Reset(p.interval)
	}
}

func (p *Poller) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObservePollCycle(ResultUnknown, time.Now())
			p.logger.Error("poll cycle panicked", "panic", r)
		}
	}()

	ev, err := p.RunOnce(ctx)
	result := Classify(err)
	metrics.ObservePollCycle(result, time.Now())

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("poll cycle failed", "result", result, "error", err)
		return
	}

	if ev != nil {
		metrics.IncExposureEvent(string(ev.Marker))
		p.logger.Info("sun exposure event recorded", "id", ev.ID, "marker", ev.Marker, "timestamp", ev.Timestamp)
		return
	}
	p.logger.Debug("poll cycle completed")
}

// Start launches Run in its own goroutine. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		p.Run(ctx)
	}()
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
// It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Classify maps a cycle error onto a failure class.
func Classify(err error) string {
	var (
		transportErr   *telemetry.TransportError
		protocolErr    *telemetry.ProtocolError
		persistenceErr *store.PersistenceError
	)
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &transportErr):
		return ResultTransport
	case errors.As(err, &protocolErr):
		return ResultProtocol
	case errors.As(err, &persistenceErr):
		return ResultPersistence
	default:
		return ResultUnknown
	}
}
