package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return &buf
}

func TestRequestIDGenerated(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	id := w.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", id, err)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "caller-supplied")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != "caller-supplied" {
		t.Fatalf("request id = %q", got)
	}
}

func TestAccessLog(t *testing.T) {
	buf := captureLogs(t)
	h := NewHandler(failingEmbedder{}, testLimits)
	r := NewRouter(h, true)

	w := postForm(t, r, "/embed", url.Values{})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err == nil && e["message"] == "HTTP request" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("no access log line in %q", buf.String())
	}
	if entry["level"] != "warn" || entry["path"] != "/embed" || entry["status"] != float64(422) {
		t.Fatalf("unexpected access log entry: %v", entry)
	}
	if entry["request_id"] == "" {
		t.Fatal("access log entry lacks request id")
	}
}

func TestRecovery(t *testing.T) {
	buf := captureLogs(t)
	r := NewRouter(NewHandler(failingEmbedder{}, testLimits), false)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(buf.String(), "Recovered from handler panic") {
		t.Fatalf("panic not logged: %q", buf.String())
	}
}
