package signup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/invite"
)

// Handler handles invite-based tenant signup.
type Handler struct {
	logger         *slog.Logger
	inviteService  *invite.Service
	sessionService *auth.SessionService
	cookieConfig   httputil.CookieConfig
}

// NewHandler creates a new signup handler.
func NewHandler(logger *slog.Logger, inviteService *invite.Service, sessionService *auth.SessionService) *Handler {
	return &Handler{
		logger:         logger,
		inviteService:  inviteService,
		sessionService: sessionService,
		cookieConfig:   httputil.DefaultCookieConfig(),
	}
}

// CompleteRequest represents a signup completion request.
type CompleteRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// CompleteResponse represents a completed signup.
type CompleteResponse struct {
	TenantID     string      `json:"tenant_id"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
}

// Complete redeems an invite code, creates the tenant's account and logs
// them in.
// POST /v1/auth/signup
// Public endpoint, rate limited
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" || req.Name == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "code, name and password are required")
		return
	}

	tenant, user, err := h.inviteService.CompleteSignup(r.Context(), req.Code, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInviteNotFound):
			httputil.Error(w, http.StatusNotFound, "invite not found")
		case errors.Is(err, domain.ErrInviteExpired):
			httputil.Error(w, http.StatusGone, "invite has expired")
		case errors.Is(err, domain.ErrInviteAlreadyUsed):
			httputil.Error(w, http.StatusGone, "invite has already been used")
		case errors.Is(err, domain.ErrWeakPassword):
			httputil.Error(w, http.StatusBadRequest, "password does not meet requirements")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			httputil.Error(w, http.StatusConflict, "an account with that email already exists")
		default:
			h.logger.Error("signup completion failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	opts := auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokens, err := h.sessionService.IssueSession(r.Context(), user.ID, opts)
	if err != nil {
		// Account is live, the client can log in normally.
		h.logger.Error("failed to issue session after signup", "error", err, "user_id", user.ID)
		httputil.JSON(w, http.StatusCreated, CompleteResponse{
			TenantID: tenant.ID.String(),
			Email:    user.Email,
			Role:     user.Role,
		})
		return
	}

	resp := CompleteResponse{
		TenantID:  tenant.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokens.TokenType,
		ExpiresIn: tokens.ExpiresIn,
	}

	if httputil.IsMobileClient(r) {
		resp.AccessToken = tokens.AccessToken
		resp.RefreshToken = tokens.RefreshToken
	} else {
		httputil.SetAuthCookies(
			w,
			tokens.AccessToken,
			tokens.RefreshToken,
			h.sessionService.AccessTokenTTL(),
			h.sessionService.RefreshTokenTTL(),
			h.cookieConfig,
		)
	}

	httputil.JSON(w, http.StatusCreated, resp)
}
