package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

const eventColumns = `id, title, date, timezone, city, brand, venue, venue_address, venue_link, zip_code, type, blurb, hubspot_form_id, slug, islive, user_id, created_at, updated_at`

// sortColumns whitelists the fields a listing may be ordered by.
// "sponsor" is not here on purpose: sponsor ordering is resolved in
// the service, not in SQL.
var sortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"city":       "city",
	"brand":      "brand",
	"type":       "type",
	"islive":     "islive",
	"created_at": "created_at",
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, timezone, city, brand, venue, venue_address, venue_link, zip_code, type, blurb, hubspot_form_id, slug, islive, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, nullTime(e.Date), e.Timezone, e.City, e.Brand, e.Venue, e.VenueAddress, e.VenueLink,
		e.ZipCode, e.Type, e.Blurb, e.HubspotFormID, e.Slug, e.IsLive, nullString(e.UserID),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, sorts []domain.SortCriteria) ([]*domain.Event, error) {
	var (
		where []string
		args  []interface{}
		join  string
	)
	n := 1
	switch filter.Live {
	case domain.LiveOnly:
		where = append(where, "e.islive = TRUE")
	case domain.LiveNotLive:
		where = append(where, "e.islive = FALSE")
	}
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("e.type = $%d", n))
		args = append(args, filter.Type)
		n++
	}
	if filter.Brand != "" {
		where = append(where, fmt.Sprintf("e.brand = $%d", n))
		args = append(args, filter.Brand)
		n++
	}
	if s := strings.TrimSpace(filter.SponsorName); s != "" {
		join = " JOIN event_sponsors sp ON sp.event_id = e.id"
		where = append(where, fmt.Sprintf("sp.name ILIKE $%d", n))
		args = append(args, "%"+s+"%")
		n++
	}

	cols := prefixColumns("e", eventColumns)
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM events e%s`, cols, join)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderByClause(sorts)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, date = $3, timezone = $4, city = $5, brand = $6, venue = $7, venue_address = $8,
		    venue_link = $9, zip_code = $10, type = $11, blurb = $12, hubspot_form_id = $13, slug = $14,
		    islive = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, nullTime(e.Date), e.Timezone, e.City, e.Brand, e.Venue, e.VenueAddress,
		e.VenueLink, e.ZipCode, e.Type, e.Blurb, e.HubspotFormID, e.Slug, e.IsLive, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetLive(ctx context.Context, id string, live bool) error {
	query := `UPDATE events SET islive = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, live)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var dateNull sql.NullTime
	var userNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &dateNull, &e.Timezone, &e.City, &e.Brand, &e.Venue, &e.VenueAddress,
		&e.VenueLink, &e.ZipCode, &e.Type, &e.Blurb, &e.HubspotFormID, &e.Slug, &e.IsLive,
		&userNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dateNull.Valid {
		e.Date = &dateNull.Time
	}
	if userNull.Valid {
		e.UserID = &userNull.String
	}
	return e, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// prefixColumns qualifies each column in a comma-separated list with
// the given table alias.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

// orderByClause builds the ORDER BY list from the whitelisted sort
// fields, falling back to date ASC when nothing valid remains.
func orderByClause(sorts []domain.SortCriteria) string {
	var clauses []string
	for _, s := range sorts {
		col, ok := sortColumns[s.Field]
		if !ok {
			continue
		}
		dir := "DESC"
		if s.Ascending {
			dir = "ASC"
		}
		clauses = append(clauses, "e."+col+" "+dir)
	}
	if len(clauses) == 0 {
		return "e.date ASC"
	}
	return strings.Join(clauses, ", ")
}
