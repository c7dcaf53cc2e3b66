package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across services and controllers.
var (
	ErrNotFound         = errors.New("not found")
	ErrMissingBrand     = errors.New("event must have a brand assigned")
	ErrMissingEvent     = errors.New("missing event in payload")
	ErrUnauthenticated  = errors.New("you must be logged in to sync events")
	ErrUnknownBrand     = errors.New("no database configuration found for brand")
	ErrIncompleteConfig = errors.New("database configuration is incomplete")
)

// Event represents an event record (conference, dinner, roundtable).
// Brand and Type carry free-form values; the known vocabularies are
// enforced by the editing UI, not at this layer.
// swagger:model Event
type Event struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Date          *time.Time `json:"date"`
	Timezone      string     `json:"timezone"`
	City          string     `json:"city"`
	Brand         string     `json:"brand"`
	Venue         string     `json:"venue"`
	VenueAddress  string     `json:"venue_address"`
	VenueLink     string     `json:"venue_link"`
	ZipCode       string     `json:"zip_code"`
	Type          string     `json:"type"`
	Blurb         string     `json:"blurb"`
	HubspotFormID string     `json:"hubspot_form_id"`
	Slug          string     `json:"slug"`
	IsLive        bool       `json:"islive"`
	UserID        *string    `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsExpired reports whether the event's date is more than one day in
// the past relative to now. Events without a date never expire.
func (e *Event) IsExpired(now time.Time) bool {
	if e.Date == nil {
		return false
	}
	return now.Sub(*e.Date) > 24*time.Hour
}

// LiveFilter narrows a listing by the islive flag.
type LiveFilter string

const (
	LiveAll     LiveFilter = "all"
	LiveOnly    LiveFilter = "live"
	LiveNotLive LiveFilter = "not-live"
)

// DateFilter narrows a listing by the expiry predicate.
type DateFilter string

const (
	DateAll      DateFilter = "all"
	DateUpcoming DateFilter = "upcoming"
	DatePast     DateFilter = "past"
)

// EventFilter holds the listing filters. Zero values mean "no filter".
type EventFilter struct {
	Live        LiveFilter
	Type        string
	Brand       string
	SponsorName string
	Date        DateFilter
}

// SortCriteria is one ordering clause for a listing.
type SortCriteria struct {
	Field     string
	Ascending bool
}

// EventRepository defines the interface for event storage in the primary store.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, sorts []SortCriteria) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	SetLive(ctx context.Context, id string, live bool) error
}

// EventService defines the business logic for managing events and their children.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, speakers []*Speaker, sponsors []*Sponsor, agenda []*AgendaItem) error
	GetEvent(ctx context.Context, id string) (*Event, []*Speaker, []*Sponsor, []*AgendaItem, error)
	UpdateEvent(ctx context.Context, event *Event, speakers []*Speaker, sponsors []*Sponsor, agenda []*AgendaItem) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventFilter, sorts []SortCriteria) ([]*Event, error)
	ExportEvent(ctx context.Context, id string) (*EventExport, error)
	UncheckExpiredEvents(ctx context.Context) (int, error)
}

// EventExport is the downloadable projection of an event and its
// children. Child entries carry content fields plus order index only.
// swagger:model EventExport
type EventExport struct {
	Event       ExportEvent        `json:"event"`
	AgendaItems []ExportAgendaItem `json:"agenda_items"`
	Speakers    []ExportSpeaker    `json:"speakers"`
	Sponsors    []ExportSponsor    `json:"sponsors"`
}

type ExportEvent struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Blurb         string     `json:"blurb"`
	Date          *time.Time `json:"date"`
	Timezone      string     `json:"timezone"`
	City          string     `json:"city"`
	Brand         string     `json:"brand"`
	Type          string     `json:"type"`
	Venue         string     `json:"venue"`
	VenueAddress  string     `json:"venue_address"`
	VenueLink     string     `json:"venue_link"`
	HubspotFormID string     `json:"hubspot_form_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ExportSpeaker struct {
	Name        string `json:"name"`
	About       string `json:"about"`
	HeadshotURL string `json:"headshot_url"`
	OrderIndex  int    `json:"order_index"`
}

type ExportSponsor struct {
	Name             string `json:"name"`
	About            string `json:"about"`
	LogoURL          string `json:"logo_url"`
	AssetLink        string `json:"asset_link"`
	ShortDescription string `json:"sponsor_short_description"`
	OrderIndex       int    `json:"order_index"`
}

type ExportAgendaItem struct {
	TimeSlot    string `json:"time_slot"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}
