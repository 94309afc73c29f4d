package invites

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/internal/notification"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/invite"
)

// Handler handles tenant invite endpoints.
type Handler struct {
	logger        *slog.Logger
	inviteService *invite.Service
	emailService  *notification.EmailService
}

// NewHandler creates a new invite handler. emailService may be nil when
// outbound email is not configured; invite links are then returned only
// in the API response.
func NewHandler(logger *slog.Logger, inviteService *invite.Service, emailService *notification.EmailService) *Handler {
	return &Handler{
		logger:        logger,
		inviteService: inviteService,
		emailService:  emailService,
	}
}

// CreateRequest represents an invite creation request.
type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InviteResponse represents an invite.
type InviteResponse struct {
	Code      string    `json:"code"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	SignupURL string    `json:"signup_url"`
	ExpiresAt time.Time `json:"expires_at"`
	EmailSent bool      `json:"email_sent"`
}

// VerifyResponse represents the public view of a valid invite.
type VerifyResponse struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create creates a pending tenant and an invite for them.
// POST /v1/invites
// Requires admin role
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

	inv, signupURL, err := h.inviteService.CreateInvite(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrTenantAlreadyExists) {
			httputil.Error(w, http.StatusConflict, "a tenant with that email already exists")
			return
		}
		if errors.Is(err, domain.ErrInvalidEmail) {
			httputil.Error(w, http.StatusBadRequest, "invalid email address")
			return
		}
		h.logger.Error("failed to create invite", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create invite")
		return
	}

	emailSent := false
	if h.emailService != nil {
		if err := h.emailService.SendInviteEmail(inv.Email, signupURL); err != nil {
			// The invite link is still usable from the response.
			h.logger.Error("failed to send invite email", "error", err, "tenant_id", inv.TenantID)
		} else {
			emailSent = true
			h.logger.Info("invite email sent", "tenant_id", inv.TenantID)
		}
	}

	httputil.JSON(w, http.StatusCreated, InviteResponse{
		Code:      inv.Code,
		TenantID:  inv.TenantID.String(),
		Email:     inv.Email,
		SignupURL: signupURL,
		ExpiresAt: inv.ExpiresAt,
		EmailSent: emailSent,
	})
}

// Verify checks whether an invite code can still be redeemed.
// GET /v1/invites/{code}
// Public endpoint, rate limited
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		httputil.Error(w, http.StatusBadRequest, "invite code is required")
		return
	}

	inv, tenant, err := h.inviteService.VerifyWithTenant(r.Context(), code)
	if err != nil {
		writeInviteError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, VerifyResponse{
		Email:     inv.Email,
		Name:      tenant.Name,
		ExpiresAt: inv.ExpiresAt,
	})
}

// writeInviteError maps invite domain errors to HTTP responses.
func writeInviteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInviteNotFound):
		httputil.Error(w, http.StatusNotFound, "invite not found")
	case errors.Is(err, domain.ErrInviteExpired):
		httputil.Error(w, http.StatusGone, "invite has expired")
	case errors.Is(err, domain.ErrInviteAlreadyUsed):
		httputil.Error(w, http.StatusGone, "invite has already been used")
	case errors.Is(err, domain.ErrTenantNotFound):
		// The invited tenant was deleted; the code can never be redeemed.
		httputil.Error(w, http.StatusNotFound, "invite not found")
	default:
		httputil.Error(w, http.StatusInternalServerError, "failed to verify invite")
	}
}
