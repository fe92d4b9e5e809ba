package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInconsistentLog means the event log broke the start/end alternation.
var ErrInconsistentLog = errors.New("sun exposure log is inconsistent")

// ConsistencyError reports where the alternation was broken.
type ConsistencyError struct {
	Index int
	Got   Marker
	Want  Marker
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("sun exposure log is inconsistent: event %d is %q, want %q", e.Index, e.Got, e.Want)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrInconsistentLog
}

// Window is one illuminated interval. When Open is true the interval has no
// end event yet and End holds the Unix second it was read at.
type Window struct {
	Start string
	End   string
	Open  bool
}

// BuildWindows pairs events (read in insertion order) into windows.
// A trailing start becomes an open window ending at now.
func BuildWindows(events []ExposureEvent, now time.Time) ([]Window, error) {
	windows := make([]Window, 0, len(events)/2+1)

	i := 0
	for ; i+1 < len(events); i += 2 {
		start, end := events[i], events[i+1]
		if start.Marker != MarkerStart {
			return nil, &ConsistencyError{Index: i, Got: start.Marker, Want: MarkerStart}
		}
		if end.Marker != MarkerEnd {
			return nil, &ConsistencyError{Index: i + 1, Got: end.Marker, Want: MarkerEnd}
		}
		windows = append(windows, Window{Start: start.Timestamp, End: end.Timestamp})
	}

	if i < len(events) {
		last := events[i]
		if last.Marker != MarkerStart {
			return nil, &ConsistencyError{Index: i, Got: last.Marker, Want: MarkerStart}
		}
		windows = append(windows, Window{
			Start: last.Timestamp,
			End:   strconv.FormatInt(now.Unix(), 10),
			Open:  true,
		})
	}

	return windows, nil
}
