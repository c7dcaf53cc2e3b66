package postgres

import (
	"context"
	"database/sql"

	"eventdesk/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

func (r *speakerRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	query := `
		SELECT id, event_id, name, about, headshot_url, order_index, created_at
		FROM event_speakers
		WHERE event_id = $1
		ORDER BY order_index
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s := &domain.Speaker{}
		if err := rows.Scan(&s.ID, &s.EventID, &s.Name, &s.About, &s.HeadshotURL, &s.OrderIndex, &s.CreatedAt); err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

// ReplaceForEvent deletes all speakers of the event and inserts the
// given set. Children are never patched in place.
func (r *speakerRepository) ReplaceForEvent(ctx context.Context, eventID string, speakers []*domain.Speaker) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM event_speakers WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO event_speakers (event_id, name, about, headshot_url, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, s := range speakers {
		if err := r.DB.QueryRowContext(ctx, query, eventID, s.Name, s.About, s.HeadshotURL, s.OrderIndex, s.CreatedAt).Scan(&s.ID); err != nil {
			return err
		}
		s.EventID = eventID
	}
	return nil
}
