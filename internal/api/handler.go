package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/milesgilbert/potustracker/internal/logger"
	middlewares "github.com/milesgilbert/potustracker/internal/middleware"
	"github.com/milesgilbert/potustracker/internal/models"
)

// EventStore is the subset of the event store the API depends on
type EventStore interface {
	QueryEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	EventTypes(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// SchedulePipeline is the subset of the load pipeline the API depends on
type SchedulePipeline interface {
	Snapshot() *models.Snapshot
	Refresh(ctx context.Context) error
	BackupNow(ctx context.Context) error
}

// BackupStore is the subset of the backup store the API depends on
type BackupStore interface {
	Load(ctx context.Context) (*models.Backup, error)
	AutoBackupEnabled(ctx context.Context) (bool, error)
	SetAutoBackup(ctx context.Context, enabled bool) error
}

// Handler handles HTTP requests for the API
type Handler struct {
	store       EventStore
	pipeline    SchedulePipeline
	backups     BackupStore
	version     string
	buildTime   string
	gitCommit   string
	startTime   time.Time
	adminSecret string
}

// NewHandler creates a new API handler
func NewHandler(store EventStore, pipeline SchedulePipeline, backups BackupStore, adminSecret, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		store:       store,
		pipeline:    pipeline,
		backups:     backups,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
		startTime:   time.Now(),
		adminSecret: adminSecret,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		// Health check endpoints
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)

		// API endpoints
		r.Get("/events", h.getEventsHandler)
		r.Get("/events/{id}", h.getEventHandler)
		r.Get("/types", h.getTypesHandler)
		r.Get("/stats", h.getStatsHandler)
		r.Get("/backup/status", h.backupStatusHandler)

		// System info
		r.Get("/version", h.versionHandler)
	})

	// Admin routes (protected by shared secret middleware)
	r.Route("/v1/admin", func(r chi.Router) {
		r.With(middlewares.AdminSecret(h.adminSecret)).Group(func(r chi.Router) {
			r.Post("/refresh", h.adminRefreshHandler)
			r.Post("/backup", h.adminBackupHandler)
			r.Post("/backup/auto", h.adminAutoBackupHandler)
		})
	})

	// Root health check
	r.Get("/health", h.healthHandler)
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler checks if the application is ready to serve traffic.
// Ready means a snapshot has been published and the store answers.
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"store":    "ok",
		"snapshot": "ok",
	}

	statusCode := http.StatusOK

	if err := h.store.Health(ctx); err != nil {
		checks["store"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	if h.pipeline.Snapshot() == nil {
		checks["snapshot"] = "not loaded"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// getEventsHandler handles GET /events
func (h *Handler) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := h.parseEventQuery(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.store.QueryEvents(ctx, q)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to query events", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"data":      events,
		"count":     len(events),
		"timestamp": time.Now().UTC(),
	}
	if snap := h.pipeline.Snapshot(); snap != nil {
		response["source"] = snap.Source
		if !snap.LastUpdated.IsZero() {
			response["last_updated"] = snap.LastUpdated
		}
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	h.writeJSONResponse(w, http.StatusOK, response)
}

// getEventHandler handles GET /events/{id}
func (h *Handler) getEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "id")

	if eventID == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "event ID is required")
		return
	}

	event, err := h.store.GetEvent(ctx, eventID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get event", "error", err, "event_id", eventID)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if event == nil {
		h.writeErrorResponse(w, r, http.StatusNotFound, "Event not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	h.writeJSONResponse(w, http.StatusOK, event)
}

// getTypesHandler handles GET /types
func (h *Handler) getTypesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	types, err := h.store.EventTypes(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list event types", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	if types == nil {
		types = []string{}
	}

	response := map[string]interface{}{
		"data":      types,
		"count":     len(types),
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	h.writeJSONResponse(w, http.StatusOK, response)
}

// getStatsHandler handles GET /stats
func (h *Handler) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	if snap == nil {
		h.writeErrorResponse(w, r, http.StatusServiceUnavailable, "Schedule data not loaded yet")
		return
	}

	response := map[string]interface{}{
		"data":      snap.Stats,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
		"timestamp": time.Now().UTC(),
	}
	if !snap.LastUpdated.IsZero() {
		response["last_updated"] = snap.LastUpdated
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	h.writeJSONResponse(w, http.StatusOK, response)
}

// backupStatusHandler handles GET /backup/status
func (h *Handler) backupStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}

	enabled, err := h.backups.AutoBackupEnabled(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to read auto-backup flag", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	response["auto_backup"] = enabled

	record, err := h.backups.Load(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load backup", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	if record == nil {
		response["exists"] = false
	} else {
		response["exists"] = true
		response["events"] = len(record.Events)
		response["version"] = record.Version
		if !record.LastUpdated.IsZero() {
			response["last_updated"] = record.LastUpdated
		}
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// adminRefreshHandler handles POST /admin/refresh
func (h *Handler) adminRefreshHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pipeline.Refresh(ctx); err != nil {
		logger.WithContext(ctx).Error("Manual refresh failed", "error", err)
		h.writeErrorResponse(w, r, http.StatusBadGateway, err.Error())
		return
	}

	snap := h.pipeline.Snapshot()
	response := map[string]interface{}{
		"status":    "refreshed",
		"timestamp": time.Now().UTC(),
	}
	if snap != nil {
		response["source"] = snap.Source
		response["events"] = len(snap.Events)
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// adminBackupHandler handles POST /admin/backup
func (h *Handler) adminBackupHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pipeline.BackupNow(ctx); err != nil {
		logger.WithContext(ctx).Error("Manual backup failed", "error", err)
		h.writeErrorResponse(w, r, http.StatusConflict, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "saved",
		"timestamp": time.Now().UTC(),
	})
}

// adminAutoBackupHandler handles POST /admin/backup/auto
func (h *Handler) adminAutoBackupHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.backups.SetAutoBackup(ctx, body.Enabled); err != nil {
		logger.WithContext(ctx).Error("Failed to set auto-backup flag", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":      "updated",
		"auto_backup": body.Enabled,
		"timestamp":   time.Now().UTC(),
	})
}

// parseEventQuery parses query parameters into EventQuery
func (h *Handler) parseEventQuery(r *http.Request) (models.EventQuery, error) {
	q := models.EventQuery{}

	// Parse limit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return q, fmt.Errorf("invalid limit: %s", limitStr)
		}
		if limit < 0 || limit > 1000 {
			return q, fmt.Errorf("limit must be between 0 and 1000")
		}
		q.Limit = limit
	}

	// Parse offset
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return q, fmt.Errorf("invalid offset: %s", offsetStr)
		}
		if offset < 0 {
			return q, fmt.Errorf("offset must be non-negative")
		}
		q.Offset = offset
	}

	// Parse date filters, calendar days inclusive
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		if _, err := time.Parse("2006-01-02", sinceStr); err != nil {
			return q, fmt.Errorf("invalid since format: %s", sinceStr)
		}
		q.Since = sinceStr
	}

	if untilStr := r.URL.Query().Get("until"); untilStr != "" {
		if _, err := time.Parse("2006-01-02", untilStr); err != nil {
			return q, fmt.Errorf("invalid until format: %s", untilStr)
		}
		q.Until = untilStr
	}

	q.Search = r.URL.Query().Get("search")
	q.Types = r.URL.Query()["type"]

	return q, nil
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: r.Header.Get("X-Request-ID"),
	}

	h.writeJSONResponse(w, statusCode, response)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
