package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type syncService struct {
	registry       domain.BrandRegistry
	connector      domain.TargetConnector
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSyncService(registry domain.BrandRegistry, connector domain.TargetConnector, logger *slog.Logger, timeout time.Duration) domain.SyncService {
	return &syncService{
		registry:       registry,
		connector:      connector,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Sync mirrors the payload's event into its brand's database: upsert
// the event row, then replace speakers, sponsors, and agenda items,
// strictly in that order. The first failing step aborts the remainder
// and its error is surfaced; steps already applied are not rolled
// back. A failure during the sponsor step therefore leaves the target
// with a fresh event and fresh speakers but stale or missing sponsors
// and agenda items.
func (s *syncService) Sync(ctx context.Context, payload *domain.SyncPayload) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if payload == nil || payload.Event == nil {
		return domain.ErrMissingEvent
	}
	event := payload.Event
	if strings.TrimSpace(event.Brand) == "" {
		return domain.ErrMissingBrand
	}

	target, err := s.registry.Resolve(event.Brand)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "sync request",
		"event_id", event.ID,
		"brand", event.Brand,
		"speakers", len(payload.Speakers),
		"sponsors", len(payload.Sponsors),
		"agenda_items", len(payload.AgendaItems),
	)

	store, err := s.connector.Open(ctx, target)
	if err != nil {
		return fmt.Errorf("open %s database: %w", event.Brand, err)
	}
	defer store.Close()

	if err := store.UpsertEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to sync event: %w", err)
	}
	if err := store.ReplaceSpeakers(ctx, event.ID, payload.Speakers); err != nil {
		return fmt.Errorf("failed to sync speakers: %w", err)
	}
	if err := store.ReplaceSponsors(ctx, event.ID, payload.Sponsors); err != nil {
		return fmt.Errorf("failed to sync sponsors: %w", err)
	}
	if err := store.ReplaceAgendaItems(ctx, event.ID, payload.AgendaItems); err != nil {
		return fmt.Errorf("failed to sync agenda items: %w", err)
	}

	s.logger.InfoContext(ctx, "sync completed", "event_id", event.ID, "brand", event.Brand)
	return nil
}
