package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// SyncSuccessResponse is the legacy body returned by POST /sync.
// swagger:model SyncSuccessResponse
type SyncSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SyncErrorResponse is the legacy error body returned by POST /sync.
// swagger:model SyncErrorResponse
type SyncErrorResponse struct {
	Error string `json:"error"`
}

// TriggerSyncResponse is the confirmation for POST /events/{eventID}/sync.
type TriggerSyncResponse struct {
	Message  string `json:"message"`
	Database string `json:"database"`
}

type SyncController struct {
	Logger   *slog.Logger
	Service  domain.SyncService
	Packager domain.SyncPackager
}

func NewSyncController(logger *slog.Logger, svc domain.SyncService, packager domain.SyncPackager) *SyncController {
	return &SyncController{
		Logger:   logger,
		Service:  svc,
		Packager: packager,
	}
}

// HandleSync godoc
// @Summary Mirror an event into its brand database
// @Description Server half of the sync routine. Validates the payload, resolves the brand target, upserts the event row, then replaces speakers, sponsors, and agenda items in that order. The first failing step aborts the remainder; completed steps are not rolled back. Responses keep the original bare envelope for existing callers.
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.SyncPayload true "Event with child collections"
// @Success 200 {object} controllers.SyncSuccessResponse
// @Failure 500 {object} controllers.SyncErrorResponse
// @Router /sync [post]
func (c *SyncController) HandleSync(w http.ResponseWriter, r *http.Request) {
	var payload domain.SyncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.writeSyncError(w, r, err)
		return
	}
	if err := c.Service.Sync(r.Context(), &payload); err != nil {
		c.writeSyncError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SyncSuccessResponse{Success: true, Message: "Event synced successfully"})
}

// writeSyncError keeps the sync endpoint's original contract: every
// failure is a 500 with a bare {error} body.
func (c *SyncController) writeSyncError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "sync failed", "path", r.URL.Path, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(SyncErrorResponse{Error: err.Error()})
}

// TriggerSync godoc
// @Summary Sync an event to its brand database
// @Description Client half of the sync routine: packages the event and its children from the primary store and submits them to the sync endpoint with the caller's bearer credential. Performs no local writes.
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the confirmation with the target database"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event has no brand)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: remote_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sync [post]
func (c *SyncController) TriggerSync(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	token, _ := middleware.BearerTokenFromContext(r.Context())
	brand, err := c.Packager.Sync(r.Context(), eventID, token)
	if err != nil {
		var remoteErr *domain.RemoteError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrMissingBrand):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, domain.ErrMissingBrand.Error())
		case errors.Is(err, domain.ErrUnauthenticated):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, domain.ErrUnauthenticated.Error())
		case errors.As(err, &remoteErr):
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeRemoteError, remoteErr.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TriggerSyncResponse{
		Message:  "Event successfully synced to " + brand + " database",
		Database: brand,
	})
}
