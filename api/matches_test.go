package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/registry"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(logging.ERROR, "[test]", io.Discard)
}

func newMatchesHandler(t *testing.T) *MatchesHandler {
	t.Helper()
	store, err := registry.NewStore(filepath.Join(t.TempDir(), "matches.json"), testLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return NewMatchesHandler(store, testLogger())
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp logging.HTTPErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v (body: %s)", err, rec.Body.String())
	}
	return resp.Error
}

func TestMatches_Get(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var data registry.Data
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	if data.Yesterday == nil || data.Today == nil || data.Tomorrow == nil {
		t.Error("document is missing day buckets")
	}
	if len(data.Today) != 1 {
		t.Errorf("seeded today bucket has %d entries, want 1", len(data.Today))
	}
}

func TestMatches_GetDerived(t *testing.T) {
	h := newMatchesHandler(t)
	h.now = func() time.Time {
		return time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)
	}

	add := doRequest(h, http.MethodPost, "/api/matches/today",
		`{"home":"A","away":"B","time":"19:30","status":"19:30"}`)
	if add.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201", add.Code)
	}

	rec := doRequest(h, http.MethodGet, "/api/matches?derived=1", "")
	var data registry.Data
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	last := data.Today[len(data.Today)-1]
	if last.Status != registry.StatusLive {
		t.Errorf("derived status = %q, want live (kickoff 19:30, now 20:00)", last.Status)
	}

	// Without the flag the stored status comes back untouched.
	rec = doRequest(h, http.MethodGet, "/api/matches", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	last = data.Today[len(data.Today)-1]
	if last.Status != "19:30" {
		t.Errorf("stored status = %q, want 19:30", last.Status)
	}
}

func TestMatches_Add(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodPost, "/api/matches/tomorrow",
		`{"home":"Liverpool","away":"Arsenal","time":"22:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Errorf("body = %s, want success acknowledgement", rec.Body.String())
	}

	get := doRequest(h, http.MethodGet, "/api/matches", "")
	var data registry.Data
	if err := json.Unmarshal(get.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	if len(data.Tomorrow) != 1 || data.Tomorrow[0].Home != "Liverpool" {
		t.Errorf("tomorrow = %+v, want the added match", data.Tomorrow)
	}
}

func TestMatches_AddUnknownDay(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodPost, "/api/matches/nextweek", `{"home":"A"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "Unknown day: nextweek" {
		t.Errorf("error = %q, want %q", got, "Unknown day: nextweek")
	}
}

func TestMatches_AddInvalidBody(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodPost, "/api/matches/today", `{"home":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "Invalid request body" {
		t.Errorf("error = %q, want %q", got, "Invalid request body")
	}
}

func TestMatches_Update(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodPut, "/api/matches/today/0",
		`{"home":"Updated","away":"Match","time":"18:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	get := doRequest(h, http.MethodGet, "/api/matches", "")
	var data registry.Data
	if err := json.Unmarshal(get.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	if data.Today[0].Home != "Updated" {
		t.Errorf("today[0].home = %q, want Updated", data.Today[0].Home)
	}
}

func TestMatches_UpdateOutOfRange(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodPut, "/api/matches/today/99", `{"home":"A"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "Match not found" {
		t.Errorf("error = %q, want %q", got, "Match not found")
	}
}

func TestMatches_NonNumericIndex(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodDelete, "/api/matches/today/first", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "Match not found" {
		t.Errorf("error = %q, want %q", got, "Match not found")
	}
}

func TestMatches_Delete(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodDelete, "/api/matches/today/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	get := doRequest(h, http.MethodGet, "/api/matches", "")
	var data registry.Data
	if err := json.Unmarshal(get.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	if len(data.Today) != 0 {
		t.Errorf("today has %d entries after delete, want 0", len(data.Today))
	}
}

func TestMatches_Shift(t *testing.T) {
	h := newMatchesHandler(t)

	if rec := doRequest(h, http.MethodPost, "/api/matches/tomorrow",
		`{"home":"Next","away":"Day","time":"20:00"}`); rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201", rec.Code)
	}

	rec := doRequest(h, http.MethodPost, "/api/matches/shift", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if !resp.Success || resp.Message != "Day shifted successfully" {
		t.Errorf("body = %+v, want success with shift message", resp)
	}

	get := doRequest(h, http.MethodGet, "/api/matches", "")
	var data registry.Data
	if err := json.Unmarshal(get.Body.Bytes(), &data); err != nil {
		t.Fatalf("body is not a registry document: %v", err)
	}
	if len(data.Yesterday) != 1 {
		t.Errorf("yesterday has %d entries after shift, want the old today", len(data.Yesterday))
	}
	if len(data.Today) != 1 || data.Today[0].Home != "Next" {
		t.Errorf("today = %+v after shift, want the old tomorrow", data.Today)
	}
	if len(data.Tomorrow) != 0 {
		t.Errorf("tomorrow has %d entries after shift, want 0", len(data.Tomorrow))
	}
}

func TestMatches_MethodNotAllowed(t *testing.T) {
	h := newMatchesHandler(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/matches"},
		{http.MethodGet, "/api/matches/shift"},
		{http.MethodPut, "/api/matches/today"},
		{http.MethodPost, "/api/matches/today/0"},
	}

	for _, tt := range tests {
		if rec := doRequest(h, tt.method, tt.path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}
}

func TestMatches_DeepPathIsNotFound(t *testing.T) {
	h := newMatchesHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/matches/today/0/extra", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
