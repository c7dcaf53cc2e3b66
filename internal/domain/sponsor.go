package domain

import (
	"context"
	"time"
)

// Sponsor represents a sponsor attached to an event.
// swagger:model Sponsor
type Sponsor struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	Name             string    `json:"name"`
	About            string    `json:"about"`
	LogoURL          string    `json:"logo_url"`
	AssetLink        string    `json:"asset_link"`
	ShortDescription string    `json:"sponsor_short_description"`
	OrderIndex       int       `json:"order_index"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewSponsor returns a new Sponsor with the given fields. ID is typically set by the repository on insert.
func NewSponsor(eventID, name, about, logoURL, assetLink, shortDescription string, orderIndex int, createdAt time.Time) *Sponsor {
	return &Sponsor{
		EventID:          eventID,
		Name:             name,
		About:            about,
		LogoURL:          logoURL,
		AssetLink:        assetLink,
		ShortDescription: shortDescription,
		OrderIndex:       orderIndex,
		CreatedAt:        createdAt,
	}
}

// SponsorRepository defines the interface for sponsor storage in the primary store.
type SponsorRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*Sponsor, error)
	ReplaceForEvent(ctx context.Context, eventID string, sponsors []*Sponsor) error
}
