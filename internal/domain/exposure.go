package domain

import "fmt"

// Marker is the kind of a sun-exposure event.
type Marker string

const (
	MarkerStart Marker = "start"
	MarkerEnd   Marker = "end"
)

// Valid reports whether m is one of the two known markers.
func (m Marker) Valid() bool {
	return m == MarkerStart || m == MarkerEnd
}

// ParseMarker converts a stored marker string back into a Marker.
func ParseMarker(s string) (Marker, error) {
	m := Marker(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown exposure marker %q", s)
	}
	return m, nil
}

// Visibility is the illumination state reported by the telemetry source.
type Visibility string

// VisibilityDaylight is the only value treated as "in the sun".
// Anything else (eclipsed, empty, unknown) counts as not illuminated.
const VisibilityDaylight Visibility = "daylight"

// Daylight reports whether the sample was taken in sunlight.
func (v Visibility) Daylight() bool {
	return v == VisibilityDaylight
}

// ExposureEvent is one row of the sun-exposure event log.
// ID is assigned by the store and grows with insertion order.
type ExposureEvent struct {
	ID        int64
	Timestamp string
	Marker    Marker
}

// DecideFunc picks the marker to append given the most recent event (nil if the log is empty).
type DecideFunc func(last *ExposureEvent) (Marker, bool)

// Decide is the exposure state machine. It only looks at the most recent event:
//
//	daylight, log empty or last=end -> start
//	not daylight, last=start        -> end
//	anything else                   -> nothing
//
// Repeated samples of the same visibility therefore collapse into one event.
func Decide(last *ExposureEvent, v Visibility) (Marker, bool) {
	if v.Daylight() {
		if last == nil || last.Marker == MarkerEnd {
			return MarkerStart, true
		}
		return "", false
	}
	if last != nil && last.Marker == MarkerStart {
		return MarkerEnd, true
	}
	return "", false
}

// DecideFor binds an observed visibility to Decide.
func DecideFor(v Visibility) DecideFunc {
	return func(last *ExposureEvent) (Marker, bool) {
		return Decide(last, v)
	}
}
