package maintenance

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rentwell/propman/internal/http/middleware"
	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/internal/watch"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/maintenance"
	"github.com/rentwell/propman/pkg/repository"
)

// EventSource provides change notifications for the watch stream.
type EventSource interface {
	Subscribe() (<-chan watch.Event, func())
}

// Handler handles maintenance request endpoints.
type Handler struct {
	logger             *slog.Logger
	maintenanceService *maintenance.Service
	tenants            *repository.TenantsRepository
	watcher            EventSource
}

// NewHandler creates a new maintenance handler. watcher may be nil; the
// live updates endpoint then reports unavailable.
func NewHandler(logger *slog.Logger, maintenanceService *maintenance.Service, tenants *repository.TenantsRepository, watcher EventSource) *Handler {
	return &Handler{
		logger:             logger,
		maintenanceService: maintenanceService,
		tenants:            tenants,
		watcher:            watcher,
	}
}

// SubmitRequest represents a new maintenance request.
type SubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StatusRequest represents a status change.
type StatusRequest struct {
	Status domain.RequestStatus `json:"status"`
}

// RequestResponse represents a maintenance request.
type RequestResponse struct {
	ID          string               `json:"id"`
	Property    string               `json:"property"`
	Unit        string               `json:"unit"`
	Tenant      string               `json:"tenant"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      domain.RequestStatus `json:"status"`
	SubmittedAt time.Time            `json:"submitted_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func toResponse(req *domain.MaintenanceRequest) RequestResponse {
	return RequestResponse{
		ID:          req.ID.String(),
		Property:    req.Property,
		Unit:        req.Unit,
		Tenant:      req.Tenant,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		SubmittedAt: req.SubmittedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func toResponses(reqs []*domain.MaintenanceRequest) []RequestResponse {
	resp := make([]RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		resp = append(resp, toResponse(r))
	}
	return resp
}

// Submit files a new maintenance request for the calling tenant.
// POST /v1/maintenance
// Requires tenant role
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.callerTenant(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		httputil.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.maintenanceService.Submit(r.Context(), tenant.ID, req.Title, req.Description)
	if err != nil {
		h.logger.Error("failed to submit maintenance request", "error", err, "tenant_id", tenant.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to submit request")
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(created))
}

// ListMine returns the calling tenant's requests, newest first.
// GET /v1/maintenance/mine
// Requires tenant role
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.callerTenant(w, r)
	if !ok {
		return
	}

	reqs, err := h.maintenanceService.ListForTenant(r.Context(), tenant.ID)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(reqs))
}

// List returns all requests, optionally filtered by status and a search
// term matched against title, unit, tenant and property.
// GET /v1/maintenance?status=open&q=leak
// Requires admin role
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := maintenance.Filter{
		Search: r.URL.Query().Get("q"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.RequestStatus(s)
		if !status.Valid() {
			httputil.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = status
	}

	reqs, err := h.maintenanceService.ListAll(r.Context(), filter)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(reqs))
}

// SetStatus moves a request between open, in-progress and resolved.
// PUT /v1/maintenance/{id}/status
// Requires admin role
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.maintenanceService.SetStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequestStatus):
			httputil.Error(w, http.StatusBadRequest, "status must be open, in-progress or resolved")
		case errors.Is(err, domain.ErrRequestNotFound):
			httputil.Error(w, http.StatusNotFound, "request not found")
		default:
			httputil.Error(w, http.StatusInternalServerError, "failed to update request")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Watch streams maintenance change events over server-sent events until
// the client disconnects.
// GET /v1/maintenance/watch
// Requires admin role
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	if h.watcher == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "live updates not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, cancel := h.watcher.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Heartbeat keeps proxies from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", ev.Payload)
			flusher.Flush()
		}
	}
}

// callerTenant resolves the tenant record bound to the authenticated user.
func (h *Handler) callerTenant(w http.ResponseWriter, r *http.Request) (*domain.Tenant, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	tenant, err := h.tenants.GetByAuthUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusForbidden, "no tenant record for this account")
			return nil, false
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to resolve tenant")
		return nil, false
	}
	if tenant.Status == domain.TenantStatusDisabled {
		httputil.Error(w, http.StatusForbidden, "tenant account is disabled")
		return nil, false
	}
	return tenant, true
}
