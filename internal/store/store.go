package store

import (
	"context"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
)

// Store is everything the service needs from persistence.
// The poller is its only writer of the position and exposure logs.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	RecordSample(ctx context.Context, pos domain.Position, decide domain.DecideFunc) (*domain.ExposureEvent, error)
	LatestPosition(ctx context.Context) (domain.Position, error)

	LatestExposureEvent(ctx context.Context) (*domain.ExposureEvent, error)
	ListExposureEvents(ctx context.Context) ([]domain.ExposureEvent, error)
	DeleteExposureEvent(ctx context.Context, id int64) (bool, error)

	InsertPolygon(ctx context.Context, poly domain.Polygon) error
	DeletePolygon(ctx context.Context, uuid string) error
	GetPolygon(ctx context.Context, uuid string) (domain.Polygon, error)
	ListPolygons(ctx context.Context) ([]domain.Polygon, error)
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
