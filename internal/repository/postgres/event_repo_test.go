package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"eventdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "date", "timezone", "city", "brand", "venue", "venue_address", "venue_link", "zip_code", "type", "blurb", "hubspot_form_id", "slug", "islive", "user_id", "created_at", "updated_at"}

func eventRow(id, title string, date driver.Value, brand string, islive bool) []driver.Value {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{id, title, date, "America/New_York", "Boston", brand, "Venue", "1 Main St", "https://venue.example", "02101", "Dinner", "", "", "", islive, nil, created, created}
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Title:     "ITx Boston Dinner",
				Brand:     "ITx",
				Type:      "Dinner",
				CreatedAt: created,
				UpdatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, date, timezone, city, brand,`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				Title:     "Conf",
				CreatedAt: created,
				UpdatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		id       string
		mock     func(mock sqlmock.Sqlmock)
		wantErr  bool
		notFound bool
		check    func(t *testing.T, e *domain.Event)
	}{
		{
			name: "success with date",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date, timezone, city, brand,`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventCols).AddRow(eventRow("ev-1", "Dinner", date, "ITx", true)...))
			},
			check: func(t *testing.T, e *domain.Event) {
				require.Equal(t, "ev-1", e.ID)
				require.NotNil(t, e.Date)
				require.Equal(t, date, *e.Date)
				require.Nil(t, e.UserID)
				require.True(t, e.IsLive)
			},
		},
		{
			name: "success with null date",
			id:   "ev-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date, timezone, city, brand,`).
					WithArgs("ev-2").
					WillReturnRows(sqlmock.NewRows(eventCols).AddRow(eventRow("ev-2", "TBD Forum", nil, "Sentinel", false)...))
			},
			check: func(t *testing.T, e *domain.Event) {
				require.Nil(t, e.Date)
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date, timezone, city, brand,`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:  true,
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.notFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("no filters orders by date asc", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(eventCols).
			AddRow(eventRow("ev-1", "A", nil, "ITx", true)...).
			AddRow(eventRow("ev-2", "B", nil, "CDAIO", false)...)
		mock.ExpectQuery(`SELECT DISTINCT e\.id, .+ FROM events e ORDER BY e\.date ASC`).
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.List(ctx, domain.EventFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("live and brand filters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE e\.islive = TRUE AND e\.brand = \$1`).
			WithArgs("ITx").
			WillReturnRows(sqlmock.NewRows(eventCols).AddRow(eventRow("ev-1", "A", nil, "ITx", true)...))

		repo := NewEventRepository(db)
		got, err := repo.List(ctx, domain.EventFilter{Live: domain.LiveOnly, Brand: "ITx"}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sponsor search joins sponsors", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`JOIN event_sponsors sp ON sp\.event_id = e\.id WHERE sp\.name ILIKE \$1`).
			WithArgs("%Globex%").
			WillReturnRows(sqlmock.NewRows(eventCols).AddRow(eventRow("ev-1", "A", nil, "ITx", true)...))

		repo := NewEventRepository(db)
		got, err := repo.List(ctx, domain.EventFilter{SponsorName: "Globex"}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("whitelisted sorts applied in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`ORDER BY e\.title DESC, e\.created_at ASC`).
			WillReturnRows(sqlmock.NewRows(eventCols))

		repo := NewEventRepository(db)
		_, err = repo.List(ctx, domain.EventFilter{}, []domain.SortCriteria{
			{Field: "title", Ascending: false},
			{Field: "drop table", Ascending: true},
			{Field: "created_at", Ascending: true},
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		mock     func(mock sqlmock.Sqlmock)
		wantErr  bool
		notFound bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:  true,
			notFound: true,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Update(ctx, &domain.Event{ID: "ev-1", Title: "Conf"})
			if tt.wantErr {
				require.Error(t, err)
				if tt.notFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_SetLive(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET islive = \$2, updated_at = NOW\(\) WHERE id = \$1`).
			WithArgs("ev-1", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.SetLive(ctx, "ev-1", false))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET islive`).
			WithArgs("ev-missing", false).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		err = repo.SetLive(ctx, "ev-missing", false)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		id       string
		mock     func(mock sqlmock.Sqlmock)
		wantErr  bool
		notFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:  true,
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.notFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
