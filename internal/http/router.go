package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rentwell/propman/internal/config"
	"github.com/rentwell/propman/internal/http/features/dashboard"
	"github.com/rentwell/propman/internal/http/features/invites"
	"github.com/rentwell/propman/internal/http/features/maintenance"
	"github.com/rentwell/propman/internal/http/features/me"
	"github.com/rentwell/propman/internal/http/features/mfa"
	"github.com/rentwell/propman/internal/http/features/properties"
	"github.com/rentwell/propman/internal/http/features/session"
	"github.com/rentwell/propman/internal/http/features/signup"
	"github.com/rentwell/propman/internal/http/features/tenants"
	"github.com/rentwell/propman/internal/http/features/units"
	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/internal/notification"
	"github.com/rentwell/propman/internal/watch"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/invite"
	"github.com/rentwell/propman/pkg/leasing"
	pkgmaintenance "github.com/rentwell/propman/pkg/maintenance"
	"github.com/rentwell/propman/pkg/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	AccountService     *auth.AccountService
	SessionService     *auth.SessionService
	MFAService         *auth.MFAService
	InviteService      *invite.Service
	LeasingService     *leasing.Service
	MaintenanceService *pkgmaintenance.Service
	EmailService       *notification.EmailService
	Watcher            *watch.Watcher
	UsersRepo          *repository.UsersRepository
	TenantsRepo        *repository.TenantsRepository
	PropertiesRepo     *repository.PropertiesRepository
	UnitsRepo          *repository.UnitsRepository
	MaintenanceRepo    *repository.MaintenanceRepository
	RateLimitConfig    config.RateLimitConfig
	SecurityHeaders    config.SecurityHeadersConfig
	MaxRequestBody     int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBody))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Create rate limiters for different endpoint types
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	authed := middleware.Auth(cfg.SessionService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	tenantOnly := middleware.RequireRole(domain.RoleTenant)

	// Session routes
	sessionHandler := session.NewHandler(cfg.Logger, cfg.AccountService, cfg.SessionService, cfg.MFAService)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/login", sessionHandler.Login)
		r.Post("/v1/auth/refresh", sessionHandler.Refresh)
	})
	r.Post("/v1/auth/logout", sessionHandler.Logout)
	r.With(authed).Post("/v1/auth/logout/all", sessionHandler.LogoutAll)

	// Public invite verification and signup completion
	inviteHandler := invites.NewHandler(cfg.Logger, cfg.InviteService, cfg.EmailService)
	signupHandler := signup.NewHandler(cfg.Logger, cfg.InviteService, cfg.SessionService)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["verify"])
		r.Get("/v1/invites/{code}", inviteHandler.Verify)
		r.Post("/v1/auth/signup", signupHandler.Complete)
	})

	// User profile routes
	meHandler := me.NewHandler(cfg.Logger, cfg.UsersRepo, cfg.TenantsRepo)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/v1/me", meHandler.GetMe)
		r.Patch("/v1/me", meHandler.UpdateMe)
	})

	// MFA routes (if MFA service is configured)
	if cfg.MFAService != nil {
		mfaHandler := mfa.NewHandler(cfg.Logger, cfg.MFAService, cfg.AccountService, cfg.SessionService)
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Use(adminOnly)
			r.Post("/v1/me/mfa/setup", mfaHandler.Setup)
			r.Post("/v1/me/mfa/enable", mfaHandler.Enable)
			r.Post("/v1/me/mfa/disable", mfaHandler.Disable)
		})
	}

	// Maintenance routes. A nil *watch.Watcher must stay a nil interface so
	// the watch endpoint reports unavailable instead of panicking.
	var events maintenance.EventSource
	if cfg.Watcher != nil {
		events = cfg.Watcher
	}
	maintenanceHandler := maintenance.NewHandler(cfg.Logger, cfg.MaintenanceService, cfg.TenantsRepo, events)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(tenantOnly)
		r.Post("/v1/maintenance", maintenanceHandler.Submit)
		r.Get("/v1/maintenance/mine", maintenanceHandler.ListMine)
	})

	// Admin routes
	propertyHandler := properties.NewHandler(cfg.Logger, cfg.PropertiesRepo, cfg.UnitsRepo, cfg.LeasingService)
	unitHandler := units.NewHandler(cfg.Logger, cfg.UnitsRepo, cfg.PropertiesRepo)
	tenantHandler := tenants.NewHandler(cfg.Logger, cfg.TenantsRepo, cfg.LeasingService, cfg.InviteService)
	dashboardHandler := dashboard.NewHandler(cfg.Logger, cfg.PropertiesRepo, cfg.UnitsRepo, cfg.TenantsRepo, cfg.MaintenanceRepo)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(adminOnly)

		r.Post("/v1/invites", inviteHandler.Create)

		r.Get("/v1/properties", propertyHandler.List)
		r.Post("/v1/properties", propertyHandler.Create)
		r.Get("/v1/properties/{id}", propertyHandler.Get)
		r.Put("/v1/properties/{id}", propertyHandler.Update)
		r.Delete("/v1/properties/{id}", propertyHandler.Delete)

		r.Get("/v1/units", unitHandler.List)
		r.Post("/v1/units", unitHandler.Create)
		r.Get("/v1/units/{id}", unitHandler.Get)
		r.Put("/v1/units/{id}", unitHandler.Update)
		r.Delete("/v1/units/{id}", unitHandler.Delete)

		r.Get("/v1/tenants", tenantHandler.List)
		r.Post("/v1/tenants", tenantHandler.Create)
		r.Get("/v1/tenants/{id}", tenantHandler.Get)
		r.Put("/v1/tenants/{id}/status", tenantHandler.SetStatus)
		r.Post("/v1/tenants/{id}/assign", tenantHandler.Assign)
		r.Post("/v1/tenants/{id}/unassign", tenantHandler.Unassign)

		r.Get("/v1/maintenance", maintenanceHandler.List)
		r.Put("/v1/maintenance/{id}/status", maintenanceHandler.SetStatus)
		r.Get("/v1/maintenance/watch", maintenanceHandler.Watch)

		r.Get("/v1/dashboard", dashboardHandler.Stats)
	})

	return r
}
