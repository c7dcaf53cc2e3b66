package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID         map[string]*domain.Event
	nextID       int
	createErr    error
	getErr       error
	listResult   []*domain.Event
	listErr      error
	lastFilter   domain.EventFilter
	setLiveErrs  map[string]error
	setLiveCalls []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:        make(map[string]*domain.Event),
		nextID:      1,
		setLiveErrs: make(map[string]error),
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, sorts []domain.SortCriteria) ([]*domain.Event, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) SetLive(ctx context.Context, id string, live bool) error {
	f.setLiveCalls = append(f.setLiveCalls, id)
	if err := f.setLiveErrs[id]; err != nil {
		return err
	}
	if e, ok := f.byID[id]; ok {
		e.IsLive = live
	}
	return nil
}

// fakeSpeakerRepo is an in-memory SpeakerRepository for tests.
type fakeSpeakerRepo struct {
	byEvent    map[string][]*domain.Speaker
	listErr    error
	replaceErr error
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{byEvent: make(map[string][]*domain.Speaker)}
}

func (f *fakeSpeakerRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byEvent[eventID], nil
}

func (f *fakeSpeakerRepo) ReplaceForEvent(ctx context.Context, eventID string, speakers []*domain.Speaker) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.byEvent[eventID] = speakers
	return nil
}

// fakeSponsorRepo is an in-memory SponsorRepository for tests.
type fakeSponsorRepo struct {
	byEvent    map[string][]*domain.Sponsor
	listErr    error
	replaceErr error
}

func newFakeSponsorRepo() *fakeSponsorRepo {
	return &fakeSponsorRepo{byEvent: make(map[string][]*domain.Sponsor)}
}

func (f *fakeSponsorRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Sponsor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byEvent[eventID], nil
}

func (f *fakeSponsorRepo) ReplaceForEvent(ctx context.Context, eventID string, sponsors []*domain.Sponsor) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.byEvent[eventID] = sponsors
	return nil
}

// fakeAgendaRepo is an in-memory AgendaItemRepository for tests.
type fakeAgendaRepo struct {
	byEvent    map[string][]*domain.AgendaItem
	listErr    error
	replaceErr error
}

func newFakeAgendaRepo() *fakeAgendaRepo {
	return &fakeAgendaRepo{byEvent: make(map[string][]*domain.AgendaItem)}
}

func (f *fakeAgendaRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.AgendaItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byEvent[eventID], nil
}

func (f *fakeAgendaRepo) ReplaceForEvent(ctx context.Context, eventID string, items []*domain.AgendaItem) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.byEvent[eventID] = items
	return nil
}

type serviceFixture struct {
	events   *fakeEventRepo
	speakers *fakeSpeakerRepo
	sponsors *fakeSponsorRepo
	agenda   *fakeAgendaRepo
	svc      *eventService
}

func newServiceFixture(now time.Time) *serviceFixture {
	f := &serviceFixture{
		events:   newFakeEventRepo(),
		speakers: newFakeSpeakerRepo(),
		sponsors: newFakeSponsorRepo(),
		agenda:   newFakeAgendaRepo(),
	}
	svc := NewEventService(f.events, f.speakers, f.sponsors, f.agenda, testLogger, 5*time.Second).(*eventService)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("requires a title", func(t *testing.T) {
		f := newServiceFixture(now)
		err := f.svc.CreateEvent(ctx, &domain.Event{}, nil, nil, nil)
		require.Error(t, err)
	})

	t.Run("sets timestamps and replaces children", func(t *testing.T) {
		f := newServiceFixture(now)
		event := &domain.Event{Title: "ITx Dinner", Brand: "ITx"}
		speakers := []*domain.Speaker{{Name: "Ada"}}
		err := f.svc.CreateEvent(ctx, event, speakers, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "ev-1", event.ID)
		assert.Equal(t, now, event.CreatedAt)
		assert.Equal(t, now, event.UpdatedAt)
		assert.Len(t, f.speakers.byEvent["ev-1"], 1)
	})

	t.Run("filters blank rows and renumbers order indices", func(t *testing.T) {
		f := newServiceFixture(now)
		event := &domain.Event{Title: "Forum"}
		speakers := []*domain.Speaker{
			{Name: "Ada", OrderIndex: 7},
			{Name: "   "},
			{Name: "Grace", OrderIndex: 2},
		}
		agenda := []*domain.AgendaItem{
			{TimeSlot: " ", Title: "", Description: ""},
			{TimeSlot: "6:00 PM", Title: "Dinner"},
		}
		require.NoError(t, f.svc.CreateEvent(ctx, event, speakers, nil, agenda))

		kept := f.speakers.byEvent["ev-1"]
		require.Len(t, kept, 2)
		assert.Equal(t, "Ada", kept[0].Name)
		assert.Equal(t, 0, kept[0].OrderIndex)
		assert.Equal(t, "Grace", kept[1].Name)
		assert.Equal(t, 1, kept[1].OrderIndex)

		keptAgenda := f.agenda.byEvent["ev-1"]
		require.Len(t, keptAgenda, 1)
		assert.Equal(t, "6:00 PM", keptAgenda[0].TimeSlot)
		assert.Equal(t, 0, keptAgenda[0].OrderIndex)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		f := newServiceFixture(now)
		_, err := f.svc.UpdateEvent(ctx, &domain.Event{ID: "ev-missing", Title: "X"}, nil, nil, nil)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("replaces children wholesale", func(t *testing.T) {
		f := newServiceFixture(now)
		event := &domain.Event{Title: "Forum"}
		require.NoError(t, f.svc.CreateEvent(ctx, event, nil, []*domain.Sponsor{{Name: "Globex"}}, nil))
		require.Len(t, f.sponsors.byEvent[event.ID], 1)

		// Saving with an empty sponsor list leaves zero sponsor rows.
		updated, err := f.svc.UpdateEvent(ctx, event, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, now, updated.UpdatedAt)
		assert.Empty(t, f.sponsors.byEvent[event.ID])
	})
}

func TestEventService_ListEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }

	pastEvent := &domain.Event{ID: "ev-past", Date: ptr(now.Add(-48 * time.Hour))}
	recentEvent := &domain.Event{ID: "ev-recent", Date: ptr(now.Add(-2 * time.Hour))}
	futureEvent := &domain.Event{ID: "ev-future", Date: ptr(now.Add(72 * time.Hour))}
	datelessEvent := &domain.Event{ID: "ev-dateless"}

	t.Run("past keeps only expired events", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listResult = []*domain.Event{pastEvent, recentEvent, futureEvent, datelessEvent}
		got, err := f.svc.ListEvents(ctx, domain.EventFilter{Date: domain.DatePast}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ev-past", got[0].ID)
	})

	t.Run("upcoming keeps dated unexpired events", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listResult = []*domain.Event{pastEvent, recentEvent, futureEvent, datelessEvent}
		got, err := f.svc.ListEvents(ctx, domain.EventFilter{Date: domain.DateUpcoming}, nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ev-recent", got[0].ID)
		assert.Equal(t, "ev-future", got[1].ID)
	})

	t.Run("sponsor sort orders by first sponsor name", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listResult = []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}, {ID: "ev-3"}}
		f.sponsors.byEvent["ev-1"] = []*domain.Sponsor{{Name: "Zeta"}, {Name: "Acme"}}
		f.sponsors.byEvent["ev-2"] = []*domain.Sponsor{{Name: "Initech"}}
		// ev-3 has no sponsors and sorts first ascending.
		got, err := f.svc.ListEvents(ctx, domain.EventFilter{}, []domain.SortCriteria{{Field: "sponsor", Ascending: true}})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "ev-3", got[0].ID)
		assert.Equal(t, "ev-1", got[1].ID) // Acme
		assert.Equal(t, "ev-2", got[2].ID) // Initech
	})

	t.Run("repo error", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listErr = errors.New("boom")
		_, err := f.svc.ListEvents(ctx, domain.EventFilter{}, nil)
		require.Error(t, err)
	})
}

func TestEventService_ExportEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	f := newServiceFixture(now)
	event := &domain.Event{Title: "ITx Dinner", Brand: "ITx", City: "Boston"}
	owner := "user-1"
	event.UserID = &owner
	require.NoError(t, f.svc.CreateEvent(ctx, event,
		[]*domain.Speaker{{Name: "Ada", About: "Pioneer"}},
		[]*domain.Sponsor{{Name: "Globex", ShortDescription: "sponsor blurb"}},
		[]*domain.AgendaItem{{TimeSlot: "6:00 PM", Title: "Dinner"}},
	))

	export, err := f.svc.ExportEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, export.Event.ID)
	assert.Equal(t, "Boston", export.Event.City)
	require.Len(t, export.Speakers, 1)
	assert.Equal(t, "Ada", export.Speakers[0].Name)
	require.Len(t, export.Sponsors, 1)
	assert.Equal(t, "sponsor blurb", export.Sponsors[0].ShortDescription)
	require.Len(t, export.AgendaItems, 1)
	assert.Equal(t, "6:00 PM", export.AgendaItems[0].TimeSlot)

	_, err = f.svc.ExportEvent(ctx, "ev-missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_UncheckExpiredEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }

	t.Run("flips only expired live events", func(t *testing.T) {
		f := newServiceFixture(now)
		expired1 := &domain.Event{ID: "ev-1", IsLive: true, Date: ptr(now.Add(-48 * time.Hour))}
		expired2 := &domain.Event{ID: "ev-2", IsLive: true, Date: ptr(now.Add(-30 * time.Hour))}
		fresh := &domain.Event{ID: "ev-3", IsLive: true, Date: ptr(now.Add(-1 * time.Hour))}
		dateless := &domain.Event{ID: "ev-4", IsLive: true}
		f.events.listResult = []*domain.Event{expired1, expired2, fresh, dateless}

		updated, err := f.svc.UncheckExpiredEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, updated)
		assert.Equal(t, []string{"ev-1", "ev-2"}, f.events.setLiveCalls)
		assert.Equal(t, domain.LiveOnly, f.events.lastFilter.Live)
	})

	t.Run("continues past row failures", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listResult = []*domain.Event{
			{ID: "ev-1", IsLive: true, Date: ptr(now.Add(-48 * time.Hour))},
			{ID: "ev-2", IsLive: true, Date: ptr(now.Add(-48 * time.Hour))},
			{ID: "ev-3", IsLive: true, Date: ptr(now.Add(-48 * time.Hour))},
		}
		f.events.setLiveErrs["ev-2"] = errors.New("row locked")

		updated, err := f.svc.UncheckExpiredEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, updated)
		assert.Equal(t, []string{"ev-1", "ev-2", "ev-3"}, f.events.setLiveCalls)
	})

	t.Run("list failure aborts", func(t *testing.T) {
		f := newServiceFixture(now)
		f.events.listErr = errors.New("boom")
		_, err := f.svc.UncheckExpiredEvents(ctx)
		require.Error(t, err)
	})
}
