package domain

import "errors"

// ErrNoPosition is returned when the position log has no rows yet.
var ErrNoPosition = errors.New("no position data available")

// Position is one ISS position sample as reported by the telemetry source.
// Timestamp is kept in the source's own string form and only used for ordering/display.
type Position struct {
	Timestamp string
	Latitude  float64
	Longitude float64
}
