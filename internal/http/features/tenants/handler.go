package tenants

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/invite"
	"github.com/rentwell/propman/pkg/leasing"
	"github.com/rentwell/propman/pkg/repository"
)

// Handler handles tenant management endpoints. All routes require admin
// role; tenants themselves interact through the me and maintenance
// endpoints.
type Handler struct {
	logger         *slog.Logger
	tenants        *repository.TenantsRepository
	leasingService *leasing.Service
	inviteService  *invite.Service
}

// NewHandler creates a new tenant handler.
func NewHandler(logger *slog.Logger, tenants *repository.TenantsRepository, leasingService *leasing.Service, inviteService *invite.Service) *Handler {
	return &Handler{
		logger:         logger,
		tenants:        tenants,
		leasingService: leasingService,
		inviteService:  inviteService,
	}
}

// TenantResponse represents a tenant.
type TenantResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Status     domain.TenantStatus `json:"status"`
	PropertyID *string             `json:"property_id,omitempty"`
	UnitID     *string             `json:"unit_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CreateRequest represents an admin tenant creation request. UnitID is
// optional; when set the tenant is placed into that unit immediately.
type CreateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UnitID string `json:"unit_id,omitempty"`
}

// CreateResponse is returned after a tenant is created. The invite code
// and signup URL let the admin hand the link out through any channel.
type CreateResponse struct {
	Tenant    TenantResponse `json:"tenant"`
	Code      string         `json:"code"`
	SignupURL string         `json:"signup_url"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// StatusRequest represents a tenant status change request.
type StatusRequest struct {
	Status domain.TenantStatus `json:"status"`
}

// AssignRequest represents a unit assignment request.
type AssignRequest struct {
	UnitID string `json:"unit_id"`
}

func toResponse(t *domain.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Email:     t.Email,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.PropertyID != nil {
		s := t.PropertyID.String()
		resp.PropertyID = &s
	}
	if t.UnitID != nil {
		s := t.UnitID.String()
		resp.UnitID = &s
	}
	return resp
}

// List returns all tenants.
// GET /v1/tenants
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tenants.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tenants", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}

	resp := make([]TenantResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, toResponse(t))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Create adds a tenant directly. The tenant starts pending with an
// invite, the same as the invite endpoint, and can optionally be placed
// into a unit right away.
// POST /v1/tenants
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "name and email are required")
		return
	}

	var unitID uuid.UUID
	if req.UnitID != "" {
		var err error
		unitID, err = uuid.Parse(req.UnitID)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid unit_id")
			return
		}
	}

	inv, signupURL, err := h.inviteService.CreateInvite(r.Context(), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTenantAlreadyExists):
			httputil.Error(w, http.StatusConflict, "a tenant with this email already exists")
		case errors.Is(err, domain.ErrInvalidEmail):
			httputil.Error(w, http.StatusBadRequest, "invalid email address")
		default:
			h.logger.Error("failed to create tenant", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to create tenant")
		}
		return
	}

	if unitID != uuid.Nil {
		if err := h.leasingService.Assign(r.Context(), inv.TenantID, unitID); err != nil {
			switch {
			case errors.Is(err, domain.ErrUnitNotFound):
				httputil.Error(w, http.StatusNotFound, "unit not found")
			case errors.Is(err, domain.ErrUnitOccupied):
				httputil.Error(w, http.StatusConflict, "unit is already occupied")
			default:
				h.logger.Error("failed to assign unit to new tenant", "error", err, "tenant_id", inv.TenantID)
				httputil.Error(w, http.StatusInternalServerError, "failed to assign unit")
			}
			return
		}
	}

	tenant, err := h.tenants.GetByID(r.Context(), inv.TenantID)
	if err != nil {
		h.logger.Error("failed to load created tenant", "error", err, "tenant_id", inv.TenantID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load tenant")
		return
	}

	httputil.JSON(w, http.StatusCreated, CreateResponse{
		Tenant:    toResponse(tenant),
		Code:      inv.Code,
		SignupURL: signupURL,
		ExpiresAt: inv.ExpiresAt,
	})
}

// Get returns one tenant.
// GET /v1/tenants/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tenant, err := h.tenants.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusNotFound, "tenant not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to get tenant")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(tenant))
}

// SetStatus enables or disables a tenant. Pending is reserved for the
// invite flow and cannot be set here.
// PUT /v1/tenants/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != domain.TenantStatusActive && req.Status != domain.TenantStatusDisabled {
		httputil.Error(w, http.StatusBadRequest, "status must be active or disabled")
		return
	}

	if err := h.tenants.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusNotFound, "tenant not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to update tenant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Assign places a tenant into a vacant unit.
// POST /v1/tenants/{id}/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid unit_id")
		return
	}

	if err := h.leasingService.Assign(r.Context(), id, unitID); err != nil {
		switch {
		case errors.Is(err, domain.ErrTenantNotFound):
			httputil.Error(w, http.StatusNotFound, "tenant not found")
		case errors.Is(err, domain.ErrUnitNotFound):
			httputil.Error(w, http.StatusNotFound, "unit not found")
		case errors.Is(err, domain.ErrUnitOccupied):
			httputil.Error(w, http.StatusConflict, "unit is already occupied")
		case errors.Is(err, domain.ErrTenantAlreadyAssigned):
			httputil.Error(w, http.StatusConflict, "tenant is already assigned to a unit")
		default:
			h.logger.Error("failed to assign tenant", "error", err, "tenant_id", id)
			httputil.Error(w, http.StatusInternalServerError, "failed to assign tenant")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unassign removes a tenant from their unit. No-op if unassigned.
// POST /v1/tenants/{id}/unassign
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.leasingService.Unassign(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusNotFound, "tenant not found")
			return
		}
		h.logger.Error("failed to unassign tenant", "error", err, "tenant_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to unassign tenant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tenant id")
		return uuid.Nil, false
	}
	return id, true
}
