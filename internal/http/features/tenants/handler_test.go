package tenants

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreate_Validation(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing name", `{"email":"jo@example.com"}`, http.StatusBadRequest},
		{"missing email", `{"name":"Jo"}`, http.StatusBadRequest},
		{"bad unit id", `{"name":"Jo","email":"jo@example.com","unit_id":"nope"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/tenants", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			if w.Code != tt.want {
				t.Errorf("got status %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestGet_InvalidID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/v1/tenants/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSetStatus_InvalidID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("PUT", "/v1/tenants/not-a-uuid/status", strings.NewReader(`{"status":"disabled"}`))
	w := httptest.NewRecorder()
	h.SetStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAssign_InvalidID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("POST", "/v1/tenants/not-a-uuid/assign", strings.NewReader(`{"unit_id":"11111111-1111-1111-1111-111111111111"}`))
	w := httptest.NewRecorder()
	h.Assign(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
