package domain

import (
	"context"
	"time"
)

// AgendaItem represents one agenda entry of an event.
// swagger:model AgendaItem
type AgendaItem struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	TimeSlot    string    `json:"time_slot"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAgendaItem returns a new AgendaItem with the given fields. ID is typically set by the repository on insert.
func NewAgendaItem(eventID, timeSlot, title, description string, orderIndex int, createdAt time.Time) *AgendaItem {
	return &AgendaItem{
		EventID:     eventID,
		TimeSlot:    timeSlot,
		Title:       title,
		Description: description,
		OrderIndex:  orderIndex,
		CreatedAt:   createdAt,
	}
}

// AgendaItemRepository defines the interface for agenda item storage in the primary store.
type AgendaItemRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*AgendaItem, error)
	ReplaceForEvent(ctx context.Context, eventID string, items []*AgendaItem) error
}
