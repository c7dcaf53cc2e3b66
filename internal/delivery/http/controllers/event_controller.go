package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// SpeakerInput is one speaker row in a create/update request.
type SpeakerInput struct {
	Name        string `json:"name"`
	About       string `json:"about"`
	HeadshotURL string `json:"headshot_url"`
}

// SponsorInput is one sponsor row in a create/update request.
type SponsorInput struct {
	Name             string `json:"name"`
	About            string `json:"about"`
	LogoURL          string `json:"logo_url"`
	AssetLink        string `json:"asset_link"`
	ShortDescription string `json:"sponsor_short_description"`
}

// AgendaItemInput is one agenda row in a create/update request.
type AgendaItemInput struct {
	TimeSlot    string `json:"time_slot"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SaveEventRequest is the request body for POST /events and
// PUT /events/{eventID}. A save always carries the full event plus the
// complete child collections; children are replaced, never patched.
type SaveEventRequest struct {
	Title         string            `json:"title"`
	Date          *time.Time        `json:"date"`
	Timezone      string            `json:"timezone"`
	City          string            `json:"city"`
	Brand         string            `json:"brand"`
	Venue         string            `json:"venue"`
	VenueAddress  string            `json:"venue_address"`
	VenueLink     string            `json:"venue_link"`
	ZipCode       string            `json:"zip_code"`
	Type          string            `json:"type"`
	Blurb         string            `json:"blurb"`
	HubspotFormID string            `json:"hubspot_form_id"`
	Slug          string            `json:"slug"`
	IsLive        bool              `json:"islive"`
	Speakers      []SpeakerInput    `json:"speakers"`
	Sponsors      []SponsorInput    `json:"sponsors"`
	AgendaItems   []AgendaItemInput `json:"agenda_items"`
}

// Validate implements Validator. Returns error messages for required rules.
func (r SaveEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

func (r SaveEventRequest) toDomain() (*domain.Event, []*domain.Speaker, []*domain.Sponsor, []*domain.AgendaItem) {
	event := &domain.Event{
		Title:         r.Title,
		Date:          r.Date,
		Timezone:      r.Timezone,
		City:          r.City,
		Brand:         r.Brand,
		Venue:         r.Venue,
		VenueAddress:  r.VenueAddress,
		VenueLink:     r.VenueLink,
		ZipCode:       r.ZipCode,
		Type:          r.Type,
		Blurb:         r.Blurb,
		HubspotFormID: r.HubspotFormID,
		Slug:          r.Slug,
		IsLive:        r.IsLive,
	}
	speakers := make([]*domain.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		speakers = append(speakers, &domain.Speaker{Name: s.Name, About: s.About, HeadshotURL: s.HeadshotURL})
	}
	sponsors := make([]*domain.Sponsor, 0, len(r.Sponsors))
	for _, s := range r.Sponsors {
		sponsors = append(sponsors, &domain.Sponsor{
			Name: s.Name, About: s.About, LogoURL: s.LogoURL,
			AssetLink: s.AssetLink, ShortDescription: s.ShortDescription,
		})
	}
	agenda := make([]*domain.AgendaItem, 0, len(r.AgendaItems))
	for _, a := range r.AgendaItems {
		agenda = append(agenda, &domain.AgendaItem{TimeSlot: a.TimeSlot, Title: a.Title, Description: a.Description})
	}
	return event, speakers, sponsors, agenda
}

// EventDetailResponse is the response body for GET /events/{eventID}
// and for create/update saves.
type EventDetailResponse struct {
	Event       *domain.Event        `json:"event"`
	Speakers    []*domain.Speaker    `json:"speakers"`
	Sponsors    []*domain.Sponsor    `json:"sponsors"`
	AgendaItems []*domain.AgendaItem `json:"agenda_items"`
}

// EventDetailSuccessResponse is the success envelope for event detail endpoints.
type EventDetailSuccessResponse struct {
	Data  EventDetailResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// UncheckExpiredResponse reports how many rows the bulk liveness flip updated.
type UncheckExpiredResponse struct {
	Updated int `json:"updated"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event with its speakers, sponsors, and agenda items. Children with blank names (or fully blank agenda rows) are skipped; order indices are assigned by position. The authenticated user becomes the owning user.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body SaveEventRequest true "Event data with child collections"
// @Success 201 {object} controllers.EventDetailSuccessResponse "data contains the created event and children"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req SaveEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, speakers, sponsors, agenda := req.toDomain()
	event.UserID = &userID
	if err := c.Service.CreateEvent(r.Context(), event, speakers, sponsors, agenda); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventDetailResponse{
		Event: event, Speakers: speakers, Sponsors: sponsors, AgendaItems: agenda,
	})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event and its speaker, sponsor, and agenda collections ordered by order index.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, speakers, sponsors, agenda, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventDetailResponse{
		Event: event, Speakers: speakers, Sponsors: sponsors, AgendaItems: agenda,
	})
}

// UpdateEvent godoc
// @Summary Save an event
// @Description Full save: updates every event field and replaces all three child collections (delete-all-then-insert-all; order indices reassigned by position).
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body SaveEventRequest true "Full event data with child collections"
// @Success 200 {object} controllers.EventDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SaveEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, speakers, sponsors, agenda := req.toDomain()
	event.ID = eventID
	updated, err := c.Service.UpdateEvent(r.Context(), event, speakers, sponsors, agenda)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventDetailResponse{
		Event: updated, Speakers: speakers, Sponsors: sponsors, AgendaItems: agenda,
	})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event row; child rows are removed by the store's cascade.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// ListEvents godoc
// @Summary List events
// @Description Lists events with optional filters (islive, type, brand, sponsor name search, upcoming/past) and multi-column sorting, e.g. ?sort=date:asc,title:desc. Sorting by "sponsor" orders by each event's alphabetically first sponsor.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param islive query string false "all | live | not-live"
// @Param type query string false "Event type"
// @Param brand query string false "Brand"
// @Param sponsor query string false "Sponsor name search (substring)"
// @Param date query string false "all | upcoming | past"
// @Param sort query string false "Comma-separated field:direction pairs"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Live:        domain.LiveFilter(q.Get("islive")),
		Type:        q.Get("type"),
		Brand:       q.Get("brand"),
		SponsorName: q.Get("sponsor"),
		Date:        domain.DateFilter(q.Get("date")),
	}
	sorts := parseSorts(q.Get("sort"))
	events, err := c.Service.ListEvents(r.Context(), filter, sorts)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// parseSorts parses "field:asc,field2:desc". Missing or unknown
// directions default to ascending; blank fields are dropped.
func parseSorts(s string) []domain.SortCriteria {
	var sorts []domain.SortCriteria
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, _ := strings.Cut(part, ":")
		sorts = append(sorts, domain.SortCriteria{
			Field:     field,
			Ascending: !strings.EqualFold(dir, "desc"),
		})
	}
	return sorts
}

// ExportEvent godoc
// @Summary Export an event as JSON
// @Description Produces a downloadable JSON document with top-level keys event, agenda_items, speakers, sponsors. Child entries carry content fields and order index only. Intended for human download, not re-import.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} domain.EventExport
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/export [get]
func (c *EventController) ExportEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	export, err := c.Service.ExportEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	// The export is the bare document, not the API envelope: it is
	// meant to be saved to disk as-is.
	filename := fmt.Sprintf("event-%s-%s.json", eventID, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(export)
}

// UncheckExpired godoc
// @Summary Uncheck expired live events
// @Description Flips islive to false on every live event whose date is more than one day past. Rows are updated one at a time; per-row failures are skipped silently and only the updated count is returned.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the updated count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/expired/uncheck [post]
func (c *EventController) UncheckExpired(w http.ResponseWriter, r *http.Request) {
	updated, err := c.Service.UncheckExpiredEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UncheckExpiredResponse{Updated: updated})
}
