package maintenance

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/internal/watch"
)

func TestSubmit_NoAuthContext(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("POST", "/v1/maintenance", strings.NewReader(`{"title":"Leaking faucet"}`))
	w := httptest.NewRecorder()
	h.Submit(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestList_InvalidStatusFilter(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/v1/maintenance?status=bogus", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSetStatus_InvalidID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("PUT", "/v1/maintenance/not-a-uuid/status", strings.NewReader(`{"status":"resolved"}`))
	w := httptest.NewRecorder()
	h.SetStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestWatch_NoWatcher(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/v1/maintenance/watch", nil)
	w := httptest.NewRecorder()
	h.Watch(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

// fakeEventSource hands out a pre-filled event channel. Closing the channel
// ends the stream the same way watcher shutdown does.
type fakeEventSource struct {
	events chan watch.Event
}

func (f *fakeEventSource) Subscribe() (<-chan watch.Event, func()) {
	return f.events, func() {}
}

func TestWatch_StreamsEvents(t *testing.T) {
	source := &fakeEventSource{events: make(chan watch.Event, 1)}
	source.events <- watch.Event{Channel: "maintenance_events", Payload: `{"op":"INSERT","id":"abc"}`}
	close(source.events)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, nil, nil, source)

	// The logging middleware wraps the writer; the stream must still flush
	// through it.
	handler := middleware.Logging(logger)(http.HandlerFunc(h.Watch))

	req := httptest.NewRequest("GET", "/v1/maintenance/watch", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("got content type %q, want text/event-stream", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event: change") {
		t.Errorf("body %q missing event line", body)
	}
	if !strings.Contains(body, `data: {"op":"INSERT","id":"abc"}`) {
		t.Errorf("body %q missing event payload", body)
	}
	if !w.Flushed {
		t.Error("response was never flushed")
	}
}
