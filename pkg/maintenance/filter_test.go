package maintenance

import (
	"testing"

	"github.com/rentwell/propman/pkg/domain"
)

func sampleRequests() []*domain.MaintenanceRequest {
	return []*domain.MaintenanceRequest{
		{
			Property: "Riverside Apartments",
			Unit:     "2B",
			Tenant:   "Jane Cooper",
			Title:    "Leaking kitchen faucet",
			Status:   domain.RequestStatusOpen,
		},
		{
			Property: "Hillcrest House",
			Unit:     "5A",
			Tenant:   "Guy Hawkins",
			Title:    "Broken heater",
			Status:   domain.RequestStatusInProgress,
		},
		{
			Property: "Riverside Apartments",
			Unit:     "1C",
			Tenant:   "Wade Warren",
			Title:    "Cracked window",
			Status:   domain.RequestStatusResolved,
		},
	}
}

func TestFilterMatches(t *testing.T) {
	reqs := sampleRequests()

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{
			name:   "no filter keeps all",
			filter: Filter{},
			want:   3,
		},
		{
			name:   "status filter",
			filter: Filter{Status: domain.RequestStatusOpen},
			want:   1,
		},
		{
			name:   "search matches title case-insensitively",
			filter: Filter{Search: "LEAKING"},
			want:   1,
		},
		{
			name:   "search matches property",
			filter: Filter{Search: "riverside"},
			want:   2,
		},
		{
			name:   "search matches tenant",
			filter: Filter{Search: "hawkins"},
			want:   1,
		},
		{
			name:   "search matches unit",
			filter: Filter{Search: "2b"},
			want:   1,
		},
		{
			name:   "status and search combined",
			filter: Filter{Status: domain.RequestStatusResolved, Search: "riverside"},
			want:   1,
		},
		{
			name:   "no match",
			filter: Filter{Search: "elevator"},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterRequests(reqs, tt.filter)
			if len(got) != tt.want {
				t.Errorf("filterRequests returned %d requests, want %d", len(got), tt.want)
			}
		})
	}
}
