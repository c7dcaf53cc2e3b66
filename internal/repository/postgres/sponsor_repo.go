package postgres

import (
	"context"
	"database/sql"

	"eventdesk/internal/domain"
)

type sponsorRepository struct {
	DB *sql.DB
}

func NewSponsorRepository(db *sql.DB) domain.SponsorRepository {
	return &sponsorRepository{
		DB: db,
	}
}

func (r *sponsorRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Sponsor, error) {
	query := `
		SELECT id, event_id, name, about, logo_url, asset_link, sponsor_short_description, order_index, created_at
		FROM event_sponsors
		WHERE event_id = $1
		ORDER BY order_index
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sponsors := make([]*domain.Sponsor, 0)
	for rows.Next() {
		s := &domain.Sponsor{}
		if err := rows.Scan(&s.ID, &s.EventID, &s.Name, &s.About, &s.LogoURL, &s.AssetLink, &s.ShortDescription, &s.OrderIndex, &s.CreatedAt); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *sponsorRepository) ReplaceForEvent(ctx context.Context, eventID string, sponsors []*domain.Sponsor) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM event_sponsors WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO event_sponsors (event_id, name, about, logo_url, asset_link, sponsor_short_description, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, s := range sponsors {
		if err := r.DB.QueryRowContext(ctx, query, eventID, s.Name, s.About, s.LogoURL, s.AssetLink, s.ShortDescription, s.OrderIndex, s.CreatedAt).Scan(&s.ID); err != nil {
			return err
		}
		s.EventID = eventID
	}
	return nil
}
