package units

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// Handler handles unit endpoints. All routes require admin role.
type Handler struct {
	logger     *slog.Logger
	units      *repository.UnitsRepository
	properties *repository.PropertiesRepository
}

// NewHandler creates a new unit handler.
func NewHandler(logger *slog.Logger, units *repository.UnitsRepository, properties *repository.PropertiesRepository) *Handler {
	return &Handler{
		logger:     logger,
		units:      units,
		properties: properties,
	}
}

// UnitRequest represents a unit create/update request.
type UnitRequest struct {
	PropertyID string  `json:"property_id"`
	UnitNumber string  `json:"unit_number"`
	Rent       float64 `json:"rent"`
}

// UnitResponse represents a unit.
type UnitResponse struct {
	ID         string            `json:"id"`
	PropertyID string            `json:"property_id"`
	UnitNumber string            `json:"unit_number"`
	Rent       float64           `json:"rent"`
	TenantID   *string           `json:"tenant_id,omitempty"`
	Status     domain.UnitStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toResponse(u *domain.Unit) UnitResponse {
	resp := UnitResponse{
		ID:         u.ID.String(),
		PropertyID: u.PropertyID.String(),
		UnitNumber: u.UnitNumber,
		Rent:       u.Rent,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.TenantID != nil {
		s := u.TenantID.String()
		resp.TenantID = &s
	}
	return resp
}

// List returns all units, optionally scoped to a property.
// GET /v1/units?property_id=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		units []*domain.Unit
		err   error
	)
	if pid := r.URL.Query().Get("property_id"); pid != "" {
		propertyID, parseErr := uuid.Parse(pid)
		if parseErr != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid property_id")
			return
		}
		units, err = h.units.ListByProperty(r.Context(), propertyID)
	} else {
		units, err = h.units.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list units", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list units")
		return
	}

	resp := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		resp = append(resp, toResponse(u))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Get returns one unit.
// GET /v1/units/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	unit, err := h.units.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			httputil.Error(w, http.StatusNotFound, "unit not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to get unit")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(unit))
}

// Create creates a vacant unit under a property.
// POST /v1/units
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, propertyID, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	// Reject units pointing at a property that does not exist.
	if _, err := h.properties.GetByID(r.Context(), propertyID); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			httputil.Error(w, http.StatusBadRequest, "property not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to check property")
		return
	}

	now := time.Now()
	unit := &domain.Unit{
		ID:         uuid.New(),
		PropertyID: propertyID,
		UnitNumber: req.UnitNumber,
		Rent:       req.Rent,
		Status:     domain.UnitStatusVacant,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.units.Create(r.Context(), unit); err != nil {
		h.logger.Error("failed to create unit", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create unit")
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(unit))
}

// Update updates a unit's property, number and rent. Occupancy cannot be
// changed here; use the tenant assignment endpoints.
// PUT /v1/units/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, propertyID, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	unit, err := h.units.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			httputil.Error(w, http.StatusNotFound, "unit not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to get unit")
		return
	}

	unit.PropertyID = propertyID
	unit.UnitNumber = req.UnitNumber
	unit.Rent = req.Rent
	if err := h.units.Update(r.Context(), unit); err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to update unit")
		return
	}
	unit.UpdatedAt = time.Now()

	httputil.JSON(w, http.StatusOK, toResponse(unit))
}

// Delete deletes a unit. Rejected while the unit is occupied.
// DELETE /v1/units/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.units.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUnitOccupied) {
			httputil.Error(w, http.StatusConflict, "unit is occupied; unassign the tenant first")
			return
		}
		if errors.Is(err, domain.ErrUnitNotFound) {
			httputil.Error(w, http.StatusNotFound, "unit not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to delete unit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid unit id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (UnitRequest, uuid.UUID, bool) {
	var req UnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return req, uuid.Nil, false
	}
	req.UnitNumber = strings.TrimSpace(req.UnitNumber)
	if req.PropertyID == "" || req.UnitNumber == "" {
		httputil.Error(w, http.StatusBadRequest, "property_id and unit_number are required")
		return req, uuid.Nil, false
	}
	if req.Rent < 0 {
		httputil.Error(w, http.StatusBadRequest, "rent cannot be negative")
		return req, uuid.Nil, false
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property_id")
		return req, uuid.Nil, false
	}
	return req, propertyID, true
}
