package properties

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"empty body", "{}"},
		{"missing location", `{"name":"Riverside Apartments"}`},
		{"missing name", `{"location":"12 River St"}`},
		{"whitespace only", `{"name":"   ","location":"  "}`},
	}

	h := NewHandler(nil, nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/properties", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDelete_InvalidID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("DELETE", "/v1/properties/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.Delete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
