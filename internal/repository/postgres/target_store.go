package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventdesk/internal/domain"
)

type targetConnector struct{}

// NewTargetConnector returns a connector that opens brand target
// databases over lib/pq.
func NewTargetConnector() domain.TargetConnector {
	return &targetConnector{}
}

// Open connects to the brand's database. The target URL is the
// endpoint coordinate from the brand registry; the service key is the
// privileged password and is kept out of the URL itself.
func (c *targetConnector) Open(ctx context.Context, target domain.BrandTarget) (domain.TargetStore, error) {
	connStr := target.URL
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsed, err := pq.ParseURL(connStr)
		if err != nil {
			return nil, fmt.Errorf("parse target url: %w", err)
		}
		connStr = parsed
	}
	connStr += " password=" + target.ServiceKey

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open target database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to target database: %w", err)
	}
	return &targetStore{DB: db}, nil
}

// targetStore mirrors event rows into one brand database. Unlike the
// primary-store repositories it writes rows verbatim, ids included,
// so the mirror stays keyed by the same event identifier.
type targetStore struct {
	DB *sql.DB
}

func (t *targetStore) UpsertEvent(ctx context.Context, e *domain.Event) error {
	// user_id is forced NULL: the target database has no matching
	// users table rows for the primary store's owners.
	query := `
		INSERT INTO events (id, title, date, timezone, city, brand, venue, venue_address, venue_link, zip_code, type, blurb, hubspot_form_id, slug, islive, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL, $16, $17)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, date = EXCLUDED.date, timezone = EXCLUDED.timezone, city = EXCLUDED.city,
		    brand = EXCLUDED.brand, venue = EXCLUDED.venue, venue_address = EXCLUDED.venue_address,
		    venue_link = EXCLUDED.venue_link, zip_code = EXCLUDED.zip_code, type = EXCLUDED.type,
		    blurb = EXCLUDED.blurb, hubspot_form_id = EXCLUDED.hubspot_form_id, slug = EXCLUDED.slug,
		    islive = EXCLUDED.islive, user_id = NULL, updated_at = EXCLUDED.updated_at
	`
	_, err := t.DB.ExecContext(ctx, query,
		e.ID, e.Title, nullTime(e.Date), e.Timezone, e.City, e.Brand, e.Venue, e.VenueAddress,
		e.VenueLink, e.ZipCode, e.Type, e.Blurb, e.HubspotFormID, e.Slug, e.IsLive,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (t *targetStore) ReplaceSpeakers(ctx context.Context, eventID string, speakers []*domain.Speaker) error {
	if _, err := t.DB.ExecContext(ctx, `DELETE FROM event_speakers WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO event_speakers (id, event_id, name, about, headshot_url, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range speakers {
		if _, err := t.DB.ExecContext(ctx, query, s.ID, s.EventID, s.Name, s.About, s.HeadshotURL, s.OrderIndex, s.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (t *targetStore) ReplaceSponsors(ctx context.Context, eventID string, sponsors []*domain.Sponsor) error {
	if _, err := t.DB.ExecContext(ctx, `DELETE FROM event_sponsors WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO event_sponsors (id, event_id, name, about, logo_url, asset_link, sponsor_short_description, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, s := range sponsors {
		if _, err := t.DB.ExecContext(ctx, query, s.ID, s.EventID, s.Name, s.About, s.LogoURL, s.AssetLink, s.ShortDescription, s.OrderIndex, s.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (t *targetStore) ReplaceAgendaItems(ctx context.Context, eventID string, items []*domain.AgendaItem) error {
	if _, err := t.DB.ExecContext(ctx, `DELETE FROM agenda_items WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	query := `
		INSERT INTO agenda_items (id, event_id, time_slot, title, description, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, a := range items {
		if _, err := t.DB.ExecContext(ctx, query, a.ID, a.EventID, a.TimeSlot, a.Title, a.Description, a.OrderIndex, a.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (t *targetStore) Close() error {
	return t.DB.Close()
}
