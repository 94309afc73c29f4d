package dashboard

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// recentLimit caps the recent-activity feed on the dashboard.
const recentLimit = 5

// Handler handles the admin dashboard endpoint.
type Handler struct {
	logger      *slog.Logger
	properties  *repository.PropertiesRepository
	units       *repository.UnitsRepository
	tenants     *repository.TenantsRepository
	maintenance *repository.MaintenanceRepository
}

// NewHandler creates a new dashboard handler.
func NewHandler(logger *slog.Logger, properties *repository.PropertiesRepository, units *repository.UnitsRepository, tenants *repository.TenantsRepository, maintenance *repository.MaintenanceRepository) *Handler {
	return &Handler{
		logger:      logger,
		properties:  properties,
		units:       units,
		tenants:     tenants,
		maintenance: maintenance,
	}
}

// StatsResponse represents the dashboard aggregates.
type StatsResponse struct {
	Properties    int             `json:"properties"`
	Units         int             `json:"units"`
	OccupiedUnits int             `json:"occupied_units"`
	OccupancyRate float64         `json:"occupancy_rate"`
	Tenants       int             `json:"tenants"`
	OpenRequests  int             `json:"open_requests"`
	Recent        []recentRequest `json:"recent_requests"`
}

type recentRequest struct {
	ID          string               `json:"id"`
	Property    string               `json:"property"`
	Unit        string               `json:"unit"`
	Tenant      string               `json:"tenant"`
	Title       string               `json:"title"`
	Status      domain.RequestStatus `json:"status"`
	SubmittedAt time.Time            `json:"submitted_at"`
}

// Stats returns portfolio-wide counts, the occupancy rate and the most
// recent maintenance requests.
// GET /v1/dashboard
// Requires admin role
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	propertyCount, err := h.properties.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count properties", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	totalUnits, occupiedUnits, err := h.units.Counts(ctx)
	if err != nil {
		h.logger.Error("failed to count units", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	tenantCount, err := h.tenants.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count tenants", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	openRequests, err := h.maintenance.CountOpen(ctx)
	if err != nil {
		h.logger.Error("failed to count open requests", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	recent, err := h.maintenance.ListRecent(ctx, recentLimit)
	if err != nil {
		h.logger.Error("failed to list recent requests", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	resp := StatsResponse{
		Properties:    propertyCount,
		Units:         totalUnits,
		OccupiedUnits: occupiedUnits,
		OccupancyRate: OccupancyRate(totalUnits, occupiedUnits),
		Tenants:       tenantCount,
		OpenRequests:  openRequests,
		Recent:        make([]recentRequest, 0, len(recent)),
	}
	for _, req := range recent {
		resp.Recent = append(resp.Recent, recentRequest{
			ID:          req.ID.String(),
			Property:    req.Property,
			Unit:        req.Unit,
			Tenant:      req.Tenant,
			Title:       req.Title,
			Status:      req.Status,
			SubmittedAt: req.SubmittedAt,
		})
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// OccupancyRate returns the occupied share of units as a percentage
// rounded to one decimal place. Zero units means zero occupancy.
func OccupancyRate(total, occupied int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(occupied)/float64(total)*1000) / 10
}
