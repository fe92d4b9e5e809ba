package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

////////////////////////////////////////////////////////////////////////////////
// INTEGRATION TEST SUITE
//
// These tests validate the service end-to-end:
//
//   Client → HTTP API → Store → Response
//
// The service must already be running (for example via docker compose).
// Set RUN_INTEGRATION=1 to enable the suite.
//
// Optional environment overrides:
//
//   BASE_URL  default http://localhost:8080
//   API_KEY   sent as X-API-Key on polygon writes (when the service has API_KEYS set)
//
////////////////////////////////////////////////////////////////////////////////

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func apiKey() string {
	return os.Getenv("API_KEY")
}

////////////////////////////////////////////////////////////////////////////////
// SERVICE READINESS HELPER
//
// waitReady polls /ready until the store and server are ready.
// Prevents flaky failures when containers are still booting.
////////////////////////////////////////////////////////////////////////////////

func waitReady(t *testing.T) {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION") == "" {
		t.Skip("RUN_INTEGRATION not set")
	}

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL() + "/ready")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(300 * time.Millisecond)
	}

	t.Fatalf("service not ready after 30s")
}

////////////////////////////////////////////////////////////////////////////////
// GENERIC HTTP HELPERS
////////////////////////////////////////////////////////////////////////////////

// do performs a request with an optional JSON body and returns status + body.
func do(t *testing.T, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	req, _ := http.NewRequest(method, baseURL()+path, body)
	req.Header.Set("Content-Type", "application/json")
	if k := apiKey(); k != "" {
		req.Header.Set("X-API-Key", k)
	}

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS TESTS
////////////////////////////////////////////////////////////////////////////////

// Health endpoint = liveness check (server process running).
func TestHealth_ReturnsOnline(t *testing.T) {
	waitReady(t)

	s, b := do(t, http.MethodGet, "/health", nil)
	if s != http.StatusOK {
		t.Fatalf("health expected 200 got %d", s)
	}
	var r map[string]string
	if err := json.Unmarshal(b, &r); err != nil || r["status"] != "online" {
		t.Fatalf("unexpected health body %s", b)
	}
}

////////////////////////////////////////////////////////////////////////////////
// ISS READ TESTS
////////////////////////////////////////////////////////////////////////////////

// Every reported window must carry both bounds.
func TestSunExposures_WellFormed(t *testing.T) {
	waitReady(t)

	s, b := do(t, http.MethodGet, "/iss/sun", nil)
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", s, b)
	}

	var r struct {
		SunExposures []map[string]json.RawMessage `json:"sun_exposures"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for i, w := range r.SunExposures {
		if _, ok := w["start"]; !ok {
			t.Fatalf("window %d missing start", i)
		}
		if _, ok := w["end"]; !ok {
			t.Fatalf("window %d missing end", i)
		}
	}
}

// Position returns coordinates or an explicit "unavailable" message.
func TestPosition_CoordinatesOrMessage(t *testing.T) {
	waitReady(t)

	s, b := do(t, http.MethodGet, "/iss/position", nil)
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}

	var r map[string]any
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	_, hasLat := r["latitude"]
	_, hasLon := r["longitude"]
	_, hasMsg := r["message"]
	if !(hasLat && hasLon) && !hasMsg {
		t.Fatalf("unexpected position body %s", b)
	}
}

////////////////////////////////////////////////////////////////////////////////
// POLYGON TESTS
////////////////////////////////////////////////////////////////////////////////

func TestPolygons_CreateReadDelete(t *testing.T) {
	waitReady(t)

	id := uuid.New().String()
	payload := map[string]string{
		"uuid":  id,
		"color": "#dea973",
		"wkt":   "POLYGON((-7647165.019711837 -483997.78605771065,-3387984.5024039783 3941124.8293270776,-7591850.987019526 4992091.450480965,-7647165.019711837 -483997.78605771065))",
	}

	if s, b := do(t, http.MethodPost, "/2d-polygons", payload); s != http.StatusCreated {
		t.Fatalf("create expected 201 got %d: %s", s, b)
	}
	if s, _ := do(t, http.MethodGet, "/2d-polygons/"+id, nil); s != http.StatusOK {
		t.Fatalf("get expected 200 got %d", s)
	}
	if s, _ := do(t, http.MethodDelete, "/2d-polygons/"+id, nil); s != http.StatusOK {
		t.Fatalf("delete expected 200 got %d", s)
	}
	if s, _ := do(t, http.MethodGet, "/2d-polygons/"+id, nil); s != http.StatusNotFound {
		t.Fatalf("get after delete expected 404 got %d", s)
	}
}

func TestPolygons_InvalidWKTRejected(t *testing.T) {
	waitReady(t)

	payload := map[string]string{
		"uuid":  uuid.New().String(),
		"color": "#fffff",
		"wkt":   "POLYGON((-7647165.019711837 -483997.",
	}
	s, b := do(t, http.MethodPost, "/2d-polygons", payload)
	if s != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", s, b)
	}
	if !bytes.Contains(b, []byte("not a valid 2D polygon")) {
		t.Fatalf("unexpected body %s", b)
	}
}

func TestPolygons_MissingFieldsRejected(t *testing.T) {
	waitReady(t)

	s, b := do(t, http.MethodPost, "/2d-polygons", map[string]string{"color": "red"})
	if s != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", s, b)
	}
}
