package me

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/pkg/repository"
)

// UpdateMe hands the sanitized name to the users repo by value.
var _ func(context.Context, uuid.UUID, string) error = (*repository.UsersRepository)(nil).UpdateName

func TestUpdateMe_NoAuthContext(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest("PATCH", "/v1/me", strings.NewReader(`{"name":"New Name"}`))
	w := httptest.NewRecorder()
	h.UpdateMe(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUpdateMe_Validation(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing name", `{}`},
		{"blank name", `{"name":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PATCH", "/v1/me", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()
			h.UpdateMe(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
