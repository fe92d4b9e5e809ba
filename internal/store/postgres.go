package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable home of the position log, the sun-exposure event log and polygons.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, wrap("connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrap("connect", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return wrap("ensure schema", err)
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return wrap("ping", p.pool.Ping(ctx))
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// RecordSample appends pos to the position log and, if decide asks for it,
// appends an exposure event, all in one transaction.
//
// decide sees the most recent exposure event (nil on an empty log). Readers on
// other connections never observe the position without its event or vice versa.
func (p *PostgresStore) RecordSample(ctx context.Context, pos domain.Position, decide domain.DecideFunc) (*domain.ExposureEvent, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, wrap("record sample", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO iss_positions(ts, latitude, longitude)
		VALUES ($1,$2,$3)
	`, pos.Timestamp, pos.Latitude, pos.Longitude); err != nil {
		return nil, wrap("record sample", fmt.Errorf("insert position: %w", err))
	}

	last, err := latestExposureEvent(ctx, tx)
	if err != nil {
		return nil, wrap("record sample", err)
	}

	var appended *domain.ExposureEvent
	if marker, ok := decide(last); ok {
		ev := domain.ExposureEvent{Timestamp: pos.Timestamp, Marker: marker}
		err := tx.QueryRow(ctx, `
			INSERT INTO iss_sun_exposures(ts, marker)
			VALUES ($1,$2)
			RETURNING id
		`, ev.Timestamp, string(ev.Marker)).Scan(&ev.ID)
		if err != nil {
			return nil, wrap("record sample", fmt.Errorf("insert exposure event: %w", err))
		}
		appended = &ev
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrap("record sample", err)
	}
	return appended, nil
}

// LatestPosition returns the most recently inserted position or domain.ErrNoPosition.
func (p *PostgresStore) LatestPosition(ctx context.Context) (domain.Position, error) {
	var pos domain.Position
	err := p.pool.QueryRow(ctx, `
		SELECT ts, latitude, longitude
		FROM iss_positions
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&pos.Timestamp, &pos.Latitude, &pos.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Position{}, domain.ErrNoPosition
	}
	if err != nil {
		return domain.Position{}, wrap("latest position", err)
	}
	return pos, nil
}

// LatestExposureEvent returns the most recent event, or nil when the log is empty.
func (p *PostgresStore) LatestExposureEvent(ctx context.Context) (*domain.ExposureEvent, error) {
	ev, err := latestExposureEvent(ctx, p.pool)
	return ev, wrap("latest exposure event", err)
}

// ListExposureEvents returns the whole event log in insertion order.
func (p *PostgresStore) ListExposureEvents(ctx context.Context) ([]domain.ExposureEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, ts, marker
		FROM iss_sun_exposures
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, wrap("list exposure events", err)
	}
	defer rows.Close()

	events := []domain.ExposureEvent{}
	for rows.Next() {
		ev, err := scanExposureEvent(rows)
		if err != nil {
			return nil, wrap("list exposure events", err)
		}
		events = append(events, ev)
	}
	return events, wrap("list exposure events", rows.Err())
}

// DeleteExposureEvent removes one event by id and reports whether it existed.
func (p *PostgresStore) DeleteExposureEvent(ctx context.Context, id int64) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM iss_sun_exposures WHERE id=$1`, id)
	if err != nil {
		return false, wrap("delete exposure event", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertPolygon stores a polygon. A second insert with the same UUID returns
// domain.ErrDuplicatePolygon.
func (p *PostgresStore) InsertPolygon(ctx context.Context, poly domain.Polygon) error {
	// RETURNING 1 only when inserted; duplicates return no rows.
	var one int
	err := p.pool.QueryRow(ctx, `
		INSERT INTO polygons(uuid, color, wkt)
		VALUES ($1,$2,$3)
		ON CONFLICT (uuid) DO NOTHING
		RETURNING 1
	`, poly.UUID, poly.Color, poly.WKT).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDuplicatePolygon
	}
	return wrap("insert polygon", err)
}

// DeletePolygon removes a polygon by UUID or returns domain.ErrPolygonNotFound.
func (p *PostgresStore) DeletePolygon(ctx context.Context, uuid string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM polygons WHERE uuid=$1`, uuid)
	if err != nil {
		return wrap("delete polygon", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPolygonNotFound
	}
	return nil
}

// GetPolygon loads one polygon by UUID.
func (p *PostgresStore) GetPolygon(ctx context.Context, uuid string) (domain.Polygon, error) {
	var poly domain.Polygon
	err := p.pool.QueryRow(ctx, `
		SELECT uuid, color, wkt FROM polygons WHERE uuid=$1
	`, uuid).Scan(&poly.UUID, &poly.Color, &poly.WKT)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Polygon{}, domain.ErrPolygonNotFound
	}
	if err != nil {
		return domain.Polygon{}, wrap("get polygon", err)
	}
	return poly, nil
}

// ListPolygons returns every stored polygon in insertion order.
func (p *PostgresStore) ListPolygons(ctx context.Context) ([]domain.Polygon, error) {
	rows, err := p.pool.Query(ctx, `SELECT uuid, color, wkt FROM polygons ORDER BY id ASC`)
	if err != nil {
		return nil, wrap("list polygons", err)
	}
	defer rows.Close()

	polys := []domain.Polygon{}
	for rows.Next() {
		var poly domain.Polygon
		if err := rows.Scan(&poly.UUID, &poly.Color, &poly.WKT); err != nil {
			return nil, wrap("list polygons", err)
		}
		polys = append(polys, poly)
	}
	return polys, wrap("list polygons", rows.Err())
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func latestExposureEvent(ctx context.Context, q querier) (*domain.ExposureEvent, error) {
	row := q.QueryRow(ctx, `
		SELECT id, ts, marker
		FROM iss_sun_exposures
		ORDER BY id DESC
		LIMIT 1
	`)
	ev, err := scanExposureEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func scanExposureEvent(row pgx.Row) (domain.ExposureEvent, error) {
	var (
		ev     domain.ExposureEvent
		marker string
	)
	if err := row.Scan(&ev.ID, &ev.Timestamp, &marker); err != nil {
		return domain.ExposureEvent{}, err
	}
	m, err := domain.ParseMarker(marker)
	if err != nil {
		return domain.ExposureEvent{}, err
	}
	ev.Marker = m
	return ev, nil
}
