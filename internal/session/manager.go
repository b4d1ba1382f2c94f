// Package session keeps one registry and resolver per tutoring session.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mathmark/internal/element"
	"mathmark/internal/registry"
	"mathmark/internal/resolver"
	"mathmark/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = storage.ErrSessionNotFound

// Session pairs a registry with the resolver reading it.
type Session struct {
	ID       string
	Resolver *resolver.Resolver
}

func (s *Session) Registry() *registry.Registry { return s.Resolver.Registry() }

// Manager owns sessions in memory and, when a store is set, mirrors every
// Sync to it so sessions can be restored after a restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    storage.SessionStore
	opts     []resolver.Option
	logger   *zap.Logger
}

// NewManager creates a manager. store may be nil; opts are applied to every
// resolver the manager builds.
func NewManager(store storage.SessionStore, logger *zap.Logger, opts ...resolver.Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

func (m *Manager) newSession(id string) *Session {
	opts := append([]resolver.Option{resolver.WithLogger(m.logger.With(zap.String("session", id)))}, m.opts...)
	return &Session{ID: id, Resolver: resolver.New(registry.New(), opts...)}
}

// Create starts an empty session with a fresh id.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := m.newSession(id)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session", id))
	return s
}

// Get returns a live session, restoring it from the store on first access.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	rec, err := m.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	s = m.newSession(id)
	if err := s.Registry().RegisterMany(rec.Elements); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	if rec.Canvas.Width > 0 && rec.Canvas.Height > 0 {
		s.Resolver.UpdateCanvasDimensions(rec.Canvas.Width, rec.Canvas.Height)
	}

	m.mu.Lock()
	// Another caller may have restored it first.
	if existing, ok := m.sessions[id]; ok {
		s = existing
	} else {
		m.sessions[id] = s
	}
	m.mu.Unlock()

	m.logger.Debug("session restored", zap.String("session", id), zap.Int("elements", len(rec.Elements)))
	return s, nil
}

// Sync replaces the session's registry contents and canvas size. A zero
// canvas keeps the current one. Invalid elements leave the registry untouched.
func (m *Manager) Sync(ctx context.Context, id string, elems []element.SemanticElement, canvas element.CanvasDimensions) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	// Validate against a scratch registry before clearing the live one.
	if err := registry.New().RegisterMany(elems); err != nil {
		return fmt.Errorf("sync session %s: %w", id, err)
	}
	reg := s.Registry()
	reg.Clear()
	if err := reg.RegisterMany(elems); err != nil {
		return fmt.Errorf("sync session %s: %w", id, err)
	}
	if canvas.Width > 0 && canvas.Height > 0 {
		s.Resolver.UpdateCanvasDimensions(canvas.Width, canvas.Height)
	}

	if m.store == nil {
		return nil
	}
	rec := storage.SessionRecord{
		ID:        id,
		Canvas:    s.Resolver.Canvas(),
		Elements:  reg.Snapshot().Elements(),
		UpdatedAt: time.Now(),
	}
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return fmt.Errorf("persist session %s: %w", id, err)
	}
	return nil
}

// Delete drops the session from memory and the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, live := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.store != nil {
		return m.store.DeleteSession(ctx, id)
	}
	if !live {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// List returns the ids of live and persisted sessions.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	m.mu.Lock()
	for id := range m.sessions {
		seen[id] = true
	}
	m.mu.Unlock()

	if m.store != nil {
		stored, err := m.store.ListSessions(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range stored {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
