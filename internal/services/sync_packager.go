package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type syncPackager struct {
	eventRepo      domain.EventRepository
	speakerRepo    domain.SpeakerRepository
	sponsorRepo    domain.SponsorRepository
	agendaRepo     domain.AgendaItemRepository
	submitter      domain.SyncSubmitter
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSyncPackager(eventRepo domain.EventRepository,
	speakerRepo domain.SpeakerRepository,
	sponsorRepo domain.SponsorRepository,
	agendaRepo domain.AgendaItemRepository,
	submitter domain.SyncSubmitter,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SyncPackager {
	return &syncPackager{
		eventRepo:      eventRepo,
		speakerRepo:    speakerRepo,
		sponsorRepo:    sponsorRepo,
		agendaRepo:     agendaRepo,
		submitter:      submitter,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Sync assembles one event and its child collections from the primary
// store and submits them to the sync endpoint. It performs no local
// writes; the brand guard runs before anything leaves the process.
// Returns the brand the event was synced to.
func (p *syncPackager) Sync(ctx context.Context, eventID, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.contextTimeout)
	defer cancel()

	event, err := p.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch event: %w", err)
	}

	if strings.TrimSpace(event.Brand) == "" {
		return "", domain.ErrMissingBrand
	}

	// Child queries degrade to empty collections; a missing or
	// unreadable collection never blocks the sync.
	speakers, err := p.speakerRepo.ListByEventID(ctx, eventID)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to list speakers for sync", "event_id", eventID, "err", err)
		speakers = nil
	}
	sponsors, err := p.sponsorRepo.ListByEventID(ctx, eventID)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to list sponsors for sync", "event_id", eventID, "err", err)
		sponsors = nil
	}
	agendaItems, err := p.agendaRepo.ListByEventID(ctx, eventID)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to list agenda items for sync", "event_id", eventID, "err", err)
		agendaItems = nil
	}

	if strings.TrimSpace(token) == "" {
		return "", domain.ErrUnauthenticated
	}

	payload := &domain.SyncPayload{
		Event:       event,
		Speakers:    emptyIfNil(speakers),
		Sponsors:    emptyIfNil(sponsors),
		AgendaItems: emptyIfNil(agendaItems),
	}

	p.logger.InfoContext(ctx, "submitting sync payload",
		"event_id", eventID,
		"brand", event.Brand,
		"speakers", len(payload.Speakers),
		"sponsors", len(payload.Sponsors),
		"agenda_items", len(payload.AgendaItems),
	)

	if err := p.submitter.Submit(ctx, payload, token); err != nil {
		return "", err
	}
	return event.Brand, nil
}

func emptyIfNil[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
