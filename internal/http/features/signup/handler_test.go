package signup

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComplete_InvalidBody(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest("POST", "/v1/auth/signup", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Complete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestComplete_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", "{}"},
		{"missing password", `{"code":"Abc123","name":"Jane"}`},
		{"missing name", `{"code":"Abc123","password":"secret123"}`},
		{"missing code", `{"name":"Jane","password":"secret123"}`},
	}

	h := NewHandler(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Complete(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
