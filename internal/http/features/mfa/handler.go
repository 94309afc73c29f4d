package mfa

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
)

// Handler handles TOTP enrollment for admin accounts.
type Handler struct {
	logger         *slog.Logger
	mfaService     *auth.MFAService
	accountService *auth.AccountService
	sessionService *auth.SessionService
}

// NewHandler creates a new MFA handler.
func NewHandler(
	logger *slog.Logger,
	mfaService *auth.MFAService,
	accountService *auth.AccountService,
	sessionService *auth.SessionService,
) *Handler {
	return &Handler{
		logger:         logger,
		mfaService:     mfaService,
		accountService: accountService,
		sessionService: sessionService,
	}
}

// SetupRequest represents the request body for MFA setup.
type SetupRequest struct {
	Password string `json:"password"`
}

// SetupResponse represents the response body for MFA setup.
type SetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURL string `json:"provisioning_url"`
}

// Setup handles POST /v1/me/mfa/setup
// Generates a TOTP secret; MFA is not enabled until Enable verifies a code.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "password is required")
		return
	}

	if !h.verifyPassword(w, r, userID, req.Password) {
		return
	}

	setup, err := h.mfaService.SetupTOTP(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMFAAlreadyEnabled) {
			httputil.Error(w, http.StatusConflict, "MFA is already enabled")
			return
		}
		h.logger.Error("failed to setup TOTP", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to setup MFA")
		return
	}

	httputil.JSON(w, http.StatusOK, SetupResponse{
		Secret:          setup.Secret,
		ProvisioningURL: setup.ProvisioningURL,
	})
}

// EnableRequest represents the request body for enabling MFA.
type EnableRequest struct {
	Code string `json:"code"`
}

// Enable handles POST /v1/me/mfa/enable
func (h *Handler) Enable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req EnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.mfaService.VerifyTOTPAndEnable(ctx, userID, req.Code); err != nil {
		if errors.Is(err, domain.ErrInvalidMFACode) {
			httputil.Error(w, http.StatusBadRequest, "invalid MFA code")
			return
		}
		if errors.Is(err, domain.ErrMFANotEnabled) {
			httputil.Error(w, http.StatusBadRequest, "MFA setup not initiated. Please call /setup first")
			return
		}
		h.logger.Error("failed to enable MFA", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to enable MFA")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "MFA enabled successfully",
	})
}

// DisableRequest represents the request body for disabling MFA.
type DisableRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Disable handles POST /v1/me/mfa/disable
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password == "" || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "password and code are required")
		return
	}

	if !h.verifyPassword(w, r, userID, req.Password) {
		return
	}

	valid, err := h.mfaService.VerifyTOTP(ctx, userID, req.Code)
	if err != nil && !errors.Is(err, domain.ErrMFANotEnabled) {
		h.logger.Error("failed to verify TOTP", "error", err)
	}
	if !valid {
		httputil.Error(w, http.StatusUnauthorized, "invalid MFA code")
		return
	}

	if err := h.mfaService.DisableMFA(ctx, userID); err != nil {
		h.logger.Error("failed to disable MFA", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to disable MFA")
		return
	}

	// Revoke all sessions for security
	if err := h.sessionService.RevokeAllSessions(ctx, userID); err != nil {
		h.logger.Error("failed to revoke sessions", "error", err)
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "MFA disabled. All sessions revoked.",
	})
}

// verifyPassword re-authenticates the caller before sensitive MFA changes.
func (h *Handler) verifyPassword(w http.ResponseWriter, r *http.Request, userID uuid.UUID, password string) bool {
	ctx := r.Context()

	user, err := h.accountService.GetUserByID(ctx, userID)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to get user")
		return false
	}

	authenticated, err := h.accountService.Authenticate(ctx, user.Email, password)
	if err != nil || authenticated.ID != userID {
		httputil.Error(w, http.StatusUnauthorized, "invalid password")
		return false
	}
	return true
}
