package storage

import (
	"context"
	"errors"
	"time"

	"mathmark/internal/element"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is the persisted form of one session's synced registry.
type SessionRecord struct {
	ID        string
	Canvas    element.CanvasDimensions
	Elements  []element.SemanticElement
	UpdatedAt time.Time
}

// SessionStore persists registry snapshots so a session survives restarts.
type SessionStore interface {
	// SaveSession replaces the stored snapshot for rec.ID.
	SaveSession(ctx context.Context, rec SessionRecord) error

	LoadSession(ctx context.Context, id string) (*SessionRecord, error)

	DeleteSession(ctx context.Context, id string) error

	// ListSessions returns session ids, most recently updated first.
	ListSessions(ctx context.Context) ([]string, error)

	Close() error
}
