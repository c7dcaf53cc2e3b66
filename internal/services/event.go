package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	speakerRepo    domain.SpeakerRepository
	sponsorRepo    domain.SponsorRepository
	agendaRepo     domain.AgendaItemRepository
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	speakerRepo domain.SpeakerRepository,
	sponsorRepo domain.SponsorRepository,
	agendaRepo domain.AgendaItemRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		speakerRepo:    speakerRepo,
		sponsorRepo:    sponsorRepo,
		agendaRepo:     agendaRepo,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, speakers []*domain.Speaker, sponsors []*domain.Sponsor, agenda []*domain.AgendaItem) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.Title == "" {
		return fmt.Errorf("event title is required")
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return s.replaceChildren(ctx, event.ID, speakers, sponsors, agenda, now)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, []*domain.Speaker, []*domain.Sponsor, []*domain.AgendaItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, nil, domain.ErrNotFound
		}
		return nil, nil, nil, nil, fmt.Errorf("get event: %w", err)
	}
	speakers, err := s.speakerRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list speakers: %w", err)
	}
	sponsors, err := s.sponsorRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list sponsors: %w", err)
	}
	agenda, err := s.agendaRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list agenda items: %w", err)
	}
	return event, speakers, sponsors, agenda, nil
}

// UpdateEvent saves the full event row and replaces all three child
// collections. Children are never patched in place: every save
// deletes the existing set and reinserts the current one with freshly
// assigned order indices.
func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, speakers []*domain.Speaker, sponsors []*domain.Sponsor, agenda []*domain.AgendaItem) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	event.UpdatedAt = now
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.replaceChildren(ctx, event.ID, speakers, sponsors, agenda, now); err != nil {
		return nil, err
	}
	return event, nil
}

// replaceChildren filters out blank rows, renumbers order indices by
// position, and replaces each collection in the primary store.
func (s *eventService) replaceChildren(ctx context.Context, eventID string, speakers []*domain.Speaker, sponsors []*domain.Sponsor, agenda []*domain.AgendaItem, now time.Time) error {
	keptSpeakers := make([]*domain.Speaker, 0, len(speakers))
	for _, sp := range speakers {
		if strings.TrimSpace(sp.Name) == "" {
			continue
		}
		sp.OrderIndex = len(keptSpeakers)
		sp.CreatedAt = now
		keptSpeakers = append(keptSpeakers, sp)
	}
	if err := s.speakerRepo.ReplaceForEvent(ctx, eventID, keptSpeakers); err != nil {
		return fmt.Errorf("replace speakers: %w", err)
	}

	keptSponsors := make([]*domain.Sponsor, 0, len(sponsors))
	for _, sp := range sponsors {
		if strings.TrimSpace(sp.Name) == "" {
			continue
		}
		sp.OrderIndex = len(keptSponsors)
		sp.CreatedAt = now
		keptSponsors = append(keptSponsors, sp)
	}
	if err := s.sponsorRepo.ReplaceForEvent(ctx, eventID, keptSponsors); err != nil {
		return fmt.Errorf("replace sponsors: %w", err)
	}

	keptAgenda := make([]*domain.AgendaItem, 0, len(agenda))
	for _, a := range agenda {
		if strings.TrimSpace(a.TimeSlot) == "" && strings.TrimSpace(a.Title) == "" && strings.TrimSpace(a.Description) == "" {
			continue
		}
		a.OrderIndex = len(keptAgenda)
		a.CreatedAt = now
		keptAgenda = append(keptAgenda, a)
	}
	if err := s.agendaRepo.ReplaceForEvent(ctx, eventID, keptAgenda); err != nil {
		return fmt.Errorf("replace agenda items: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Children go with the primary store's FK cascade.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, sorts []domain.SortCriteria) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, filter, sorts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// The upcoming/past split uses the expiry predicate, so it is
	// applied here rather than in SQL.
	now := s.now()
	switch filter.Date {
	case domain.DatePast:
		events = filterEvents(events, func(e *domain.Event) bool {
			return e.Date != nil && e.IsExpired(now)
		})
	case domain.DateUpcoming:
		events = filterEvents(events, func(e *domain.Event) bool {
			return e.Date != nil && !e.IsExpired(now)
		})
	}

	for _, c := range sorts {
		if c.Field == "sponsor" {
			if err := s.sortBySponsor(ctx, events, c.Ascending); err != nil {
				return nil, err
			}
			break
		}
	}
	return events, nil
}

func filterEvents(events []*domain.Event, keep func(*domain.Event) bool) []*domain.Event {
	out := events[:0]
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// sortBySponsor orders events by their alphabetically first sponsor
// name. Events without sponsors sort with an empty key.
func (s *eventService) sortBySponsor(ctx context.Context, events []*domain.Event, ascending bool) error {
	keys := make(map[string]string, len(events))
	for _, e := range events {
		sponsors, err := s.sponsorRepo.ListByEventID(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("list sponsors for sort: %w", err)
		}
		key := ""
		for _, sp := range sponsors {
			if key == "" || sp.Name < key {
				key = sp.Name
			}
		}
		keys[e.ID] = key
	}
	sort.SliceStable(events, func(i, j int) bool {
		if ascending {
			return keys[events[i].ID] < keys[events[j].ID]
		}
		return keys[events[i].ID] > keys[events[j].ID]
	})
	return nil
}

func (s *eventService) ExportEvent(ctx context.Context, id string) (*domain.EventExport, error) {
	event, speakers, sponsors, agenda, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	export := &domain.EventExport{
		Event: domain.ExportEvent{
			ID:            event.ID,
			Title:         event.Title,
			Blurb:         event.Blurb,
			Date:          event.Date,
			Timezone:      event.Timezone,
			City:          event.City,
			Brand:         event.Brand,
			Type:          event.Type,
			Venue:         event.Venue,
			VenueAddress:  event.VenueAddress,
			VenueLink:     event.VenueLink,
			HubspotFormID: event.HubspotFormID,
			CreatedAt:     event.CreatedAt,
			UpdatedAt:     event.UpdatedAt,
		},
		AgendaItems: make([]domain.ExportAgendaItem, 0, len(agenda)),
		Speakers:    make([]domain.ExportSpeaker, 0, len(speakers)),
		Sponsors:    make([]domain.ExportSponsor, 0, len(sponsors)),
	}
	for _, a := range agenda {
		export.AgendaItems = append(export.AgendaItems, domain.ExportAgendaItem{
			TimeSlot:    a.TimeSlot,
			Title:       a.Title,
			Description: a.Description,
			OrderIndex:  a.OrderIndex,
		})
	}
	for _, sp := range speakers {
		export.Speakers = append(export.Speakers, domain.ExportSpeaker{
			Name:        sp.Name,
			About:       sp.About,
			HeadshotURL: sp.HeadshotURL,
			OrderIndex:  sp.OrderIndex,
		})
	}
	for _, sp := range sponsors {
		export.Sponsors = append(export.Sponsors, domain.ExportSponsor{
			Name:             sp.Name,
			About:            sp.About,
			LogoURL:          sp.LogoURL,
			AssetLink:        sp.AssetLink,
			ShortDescription: sp.ShortDescription,
			OrderIndex:       sp.OrderIndex,
		})
	}
	return export, nil
}

// UncheckExpiredEvents flips islive to false on every live event whose
// date has expired, one row at a time. Row failures are logged and
// skipped; the loop never aborts and only the updated count is
// reported.
func (s *eventService) UncheckExpiredEvents(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, domain.EventFilter{Live: domain.LiveOnly}, nil)
	if err != nil {
		return 0, fmt.Errorf("list live events: %w", err)
	}
	now := s.now()
	updated := 0
	for _, e := range events {
		if !e.IsExpired(now) {
			continue
		}
		if err := s.eventRepo.SetLive(ctx, e.ID, false); err != nil {
			s.logger.WarnContext(ctx, "failed to uncheck expired event", "event_id", e.ID, "err", err)
			continue
		}
		updated++
	}
	return updated, nil
}
