package maintenance

import (
	"strings"

	"github.com/rentwell/propman/pkg/domain"
)

// Filter narrows the admin view of maintenance requests.
type Filter struct {
	// Status keeps only requests in this state; empty keeps all.
	Status domain.RequestStatus
	// Search is matched case-insensitively against title, unit, tenant
	// and property; empty keeps all.
	Search string
}

// Matches reports whether a request passes the filter.
func (f Filter) Matches(req *domain.MaintenanceRequest) bool {
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, field := range []string{req.Title, req.Unit, req.Tenant, req.Property} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func filterRequests(requests []*domain.MaintenanceRequest, f Filter) []*domain.MaintenanceRequest {
	if f.Status == "" && f.Search == "" {
		return requests
	}
	matched := make([]*domain.MaintenanceRequest, 0, len(requests))
	for _, req := range requests {
		if f.Matches(req) {
			matched = append(matched, req)
		}
	}
	return matched
}
