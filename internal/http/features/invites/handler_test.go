package invites

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rentwell/propman/pkg/domain"
)

func TestCreate_InvalidBody(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest("POST", "/v1/invites", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", "{}"},
		{"missing email", `{"name":"Jane Cooper"}`},
		{"missing name", `{"email":"jane@example.com"}`},
	}

	h := NewHandler(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/invites", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestVerify_MissingCode(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	// No chi route context, so the code URL param resolves empty.
	req := httptest.NewRequest("GET", "/v1/invites/", nil)
	w := httptest.NewRecorder()
	h.Verify(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestWriteInviteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrInviteNotFound, http.StatusNotFound},
		{"expired", domain.ErrInviteExpired, http.StatusGone},
		{"already used", domain.ErrInviteAlreadyUsed, http.StatusGone},
		{"tenant deleted", domain.ErrTenantNotFound, http.StatusNotFound},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeInviteError(w, tt.err)

			if w.Code != tt.want {
				t.Errorf("got status %d, want %d", w.Code, tt.want)
			}
		})
	}
}
