package me

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// Handler handles user profile endpoints.
type Handler struct {
	logger  *slog.Logger
	users   *repository.UsersRepository
	tenants *repository.TenantsRepository
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, users *repository.UsersRepository, tenants *repository.TenantsRepository) *Handler {
	return &Handler{
		logger:  logger,
		users:   users,
		tenants: tenants,
	}
}

// UserResponse represents the user profile response.
type UserResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Name       *string     `json:"name,omitempty"`
	Role       domain.Role `json:"role"`
	MFAEnabled bool        `json:"mfa_enabled"`
	// TenantID is set for tenant accounts and links to their tenant record.
	TenantID *string `json:"tenant_id,omitempty"`
}

// UpdateRequest represents a profile update request.
type UpdateRequest struct {
	Name *string `json:"name,omitempty"`
}

// GetMe returns the current user's profile.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "user not found")
		return
	}

	resp := UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		MFAEnabled: user.MFAEnabled,
	}

	if user.Role == domain.RoleTenant {
		tenant, err := h.tenants.GetByAuthUserID(r.Context(), userID)
		if err == nil {
			id := tenant.ID.String()
			resp.TenantID = &id
		} else if !errors.Is(err, domain.ErrTenantNotFound) {
			h.logger.Error("failed to resolve tenant record", "error", err, "user_id", userID)
		}
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// UpdateMe updates the current user's display name.
// PATCH /v1/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == nil {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	name := auth.SanitizeName(*req.Name)
	if name == "" {
		httputil.Error(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	if err := h.users.UpdateName(r.Context(), userID, name); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusNotFound, "user not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.GetMe(w, r)
}
