package properties

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
	"github.com/rentwell/propman/pkg/leasing"
	"github.com/rentwell/propman/pkg/repository"
)

// Handler handles property endpoints. All routes require admin role.
type Handler struct {
	logger         *slog.Logger
	properties     *repository.PropertiesRepository
	units          *repository.UnitsRepository
	leasingService *leasing.Service
}

// NewHandler creates a new property handler.
func NewHandler(logger *slog.Logger, properties *repository.PropertiesRepository, units *repository.UnitsRepository, leasingService *leasing.Service) *Handler {
	return &Handler{
		logger:         logger,
		properties:     properties,
		units:          units,
		leasingService: leasingService,
	}
}

// PropertyRequest represents a property create/update request.
type PropertyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// PropertyResponse represents a property.
type PropertyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// List returns all properties.
// GET /v1/properties
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list properties", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list properties")
		return
	}

	resp := make([]PropertyResponse, 0, len(props))
	for _, p := range props {
		resp = append(resp, toResponse(p))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Get returns one property with its units.
// GET /v1/properties/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	prop, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			httputil.Error(w, http.StatusNotFound, "property not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to get property")
		return
	}

	units, err := h.units.ListByProperty(r.Context(), id)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to list units")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"property": toResponse(prop),
		"units":    units,
	})
}

// Create creates a property.
// POST /v1/properties
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	now := time.Now()
	prop := &domain.Property{
		ID:        uuid.New(),
		Name:      req.Name,
		Location:  req.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.properties.Create(r.Context(), prop); err != nil {
		h.logger.Error("failed to create property", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create property")
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(prop))
}

// Update updates a property's name and location.
// PUT /v1/properties/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	prop, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			httputil.Error(w, http.StatusNotFound, "property not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to get property")
		return
	}

	prop.Name = req.Name
	prop.Location = req.Location
	prop.UpdatedAt = time.Now()
	if err := h.properties.Update(r.Context(), prop); err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to update property")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(prop))
}

// Delete deletes a property. Rejected while any unit still belongs to it.
// DELETE /v1/properties/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.leasingService.DeleteProperty(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPropertyHasUnits) {
			httputil.Error(w, http.StatusConflict, "property still has units; delete them first")
			return
		}
		if errors.Is(err, domain.ErrPropertyNotFound) {
			httputil.Error(w, http.StatusNotFound, "property not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to delete property")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (PropertyRequest, bool) {
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		httputil.Error(w, http.StatusBadRequest, "name and location are required")
		return req, false
	}
	return req, true
}
