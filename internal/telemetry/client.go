package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSourceURL is the wheretheiss.at endpoint for the ISS (NORAD 25544).
const DefaultSourceURL = "https://api.wheretheiss.at/v1/satellites/25544"

const maxBodyBytes = 1 << 20

// Snapshot is one sample from the telemetry source.
type Snapshot struct {
	Timestamp  string
	Latitude   float64
	Longitude  float64
	Visibility string
}

// TransportError means the source could not be reached or the exchange was cut short.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telemetry transport error (%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the source answered, but not with a usable snapshot.
type ProtocolError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("telemetry protocol error (%s): status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("telemetry protocol error (%s): %v", e.URL, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Client fetches ISS snapshots over HTTP. It never retries; that is the caller's job.
type Client struct {
	sourceURL  string
	httpClient *http.Client
}

// NewClient creates a Client. An empty sourceURL selects DefaultSourceURL and a
// non-positive timeout falls back to 10s.
func NewClient(sourceURL string, timeout time.Duration) *Client {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SourceURL returns the configured source URL.
func (c *Client) SourceURL() string {
	return c.sourceURL
}

// payload mirrors the subset of the wheretheiss.at response we use.
// Pointers distinguish "missing" from zero values. The timestamp is kept raw
// because it is opaque: a JSON number or string is passed through as text.
type payload struct {
	Timestamp  json.RawMessage `json:"timestamp"`
	Latitude   *float64        `json:"latitude"`
	Longitude  *float64        `json:"longitude"`
	Visibility *string         `json:"visibility"`
}

// Fetch performs one GET against the source and decodes the snapshot.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return Snapshot{}, &TransportError{URL: c.sourceURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, &TransportError{URL: c.sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, StatusCode: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Snapshot{}, &TransportError{URL: c.sourceURL, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, Err: fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)}
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, Err: fmt.Errorf("decoding payload: %w", err)}
	}

	ts, err := timestampText(p.Timestamp)
	if err != nil {
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, Err: err}
	}

	switch {
	case p.Latitude == nil || p.Longitude == nil:
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, Err: errors.New("payload missing latitude/longitude")}
	case p.Visibility == nil:
		return Snapshot{}, &ProtocolError{URL: c.sourceURL, Err: errors.New("payload missing visibility")}
	}

	return Snapshot{
		Timestamp:  ts,
		Latitude:   *p.Latitude,
		Longitude:  *p.Longitude,
		Visibility: *p.Visibility,
	}, nil
}

// timestampText returns the literal text of a numeric timestamp or the
// unquoted value of a string one.
func timestampText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("payload missing timestamp")
	}

	var ts string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &ts); err != nil {
			return "", fmt.Errorf("decoding timestamp: %w", err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("timestamp must be a number or string: %w", err)
		}
		ts = n.String()
	}

	if ts == "" {
		return "", errors.New("payload missing timestamp")
	}
	return ts, nil
}
