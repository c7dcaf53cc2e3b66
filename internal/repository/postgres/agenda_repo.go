package postgres

import (
	"context"
	"database/sql"

	"eventdesk/internal/domain"
)

type agendaItemRepository struct {
	DB *sql.DB
}

func NewAgendaItemRepository(db *sql.DB) domain.AgendaItemRepository {
	return &agendaItemRepository{
		DB: db,
	}
}

func (r *agendaItemRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.AgendaItem, error) {
	query := `
		SELECT id, event_id, time_slot, title, description, order_index, created_at
		FROM agenda_items
		WHERE event_id = $1
		ORDER BY order_index
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.AgendaItem, 0)
	for rows.Next() {
		a := &domain.AgendaItem{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.TimeSlot, &a.Title, &a.Description, &a.OrderIndex, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *agendaItemRepository) ReplaceForEvent(ctx context.Context, eventID string, items []*domain.AgendaItem) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM agenda_items WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO agenda_items (event_id, time_slot, title, description, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, a := range items {
		if err := r.DB.QueryRowContext(ctx, query, eventID, a.TimeSlot, a.Title, a.Description, a.OrderIndex, a.CreatedAt).Scan(&a.ID); err != nil {
			return err
		}
		a.EventID = eventID
	}
	return nil
}
