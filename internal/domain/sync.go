package domain

import (
	"context"
	"fmt"
)

// SyncPayload is the body POSTed to the sync endpoint: one event plus
// its three child collections, read from the primary store.
// swagger:model SyncPayload
type SyncPayload struct {
	Event       *Event        `json:"event"`
	Speakers    []*Speaker    `json:"speakers"`
	Sponsors    []*Sponsor    `json:"sponsors"`
	AgendaItems []*AgendaItem `json:"agendaItems"`
}

// SyncService is the server half of the sync routine: it validates the
// payload, resolves the brand target, and mirrors the event into it.
type SyncService interface {
	Sync(ctx context.Context, payload *SyncPayload) error
}

// SyncPackager is the client half: it assembles the payload for one
// event from the primary store and submits it to the sync endpoint.
// It returns the brand the event was synced to.
type SyncPackager interface {
	Sync(ctx context.Context, eventID, token string) (string, error)
}

// SyncSubmitter performs the one outbound call of the packager.
type SyncSubmitter interface {
	Submit(ctx context.Context, payload *SyncPayload, token string) error
}

// TargetStore is an open connection to one brand's external database.
// The replace methods delete every row of the event first and then
// insert the given rows verbatim, preserving supplied order indices.
type TargetStore interface {
	UpsertEvent(ctx context.Context, event *Event) error
	ReplaceSpeakers(ctx context.Context, eventID string, speakers []*Speaker) error
	ReplaceSponsors(ctx context.Context, eventID string, sponsors []*Sponsor) error
	ReplaceAgendaItems(ctx context.Context, eventID string, items []*AgendaItem) error
	Close() error
}

// TargetConnector opens a TargetStore for the given brand target.
type TargetConnector interface {
	Open(ctx context.Context, target BrandTarget) (TargetStore, error)
}

// RemoteError is a rejection reported by the remote sync endpoint.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected: %s", e.Message)
}
