package domain

import (
	"context"
	"time"
)

// Speaker represents a speaker attached to an event.
// swagger:model Speaker
type Speaker struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	About       string    `json:"about"`
	HeadshotURL string    `json:"headshot_url"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSpeaker returns a new Speaker with the given fields. ID is typically set by the repository on insert.
func NewSpeaker(eventID, name, about, headshotURL string, orderIndex int, createdAt time.Time) *Speaker {
	return &Speaker{
		EventID:     eventID,
		Name:        name,
		About:       about,
		HeadshotURL: headshotURL,
		OrderIndex:  orderIndex,
		CreatedAt:   createdAt,
	}
}

// SpeakerRepository defines the interface for speaker storage in the primary store.
// ReplaceForEvent deletes every speaker of the event and inserts the
// given set; rows are never patched in place.
type SpeakerRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*Speaker, error)
	ReplaceForEvent(ctx context.Context, eventID string, speakers []*Speaker) error
}
