package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"navsession/pkg"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// SessionTTL is the sliding lifetime of a navigation session (30 minutes)
	SessionTTL = 1800 * time.Second

	routePrefix   = "route:"
	sessionPrefix = "navigation:session:"
)

// RouteKey returns the store key holding a computed route.
func RouteKey(routeID string) string {
	return routePrefix + routeID
}

// SessionKey returns the store key holding a navigation session.
func SessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

// Store is the key-value capability the manager needs from its backend.
// Get reports absence with found=false and a nil error; a value the backend
// cannot read as bytes comes back found and empty. RefreshExpiry requires a
// positive ttl and reports applied=false when the key no longer exists.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	RefreshExpiry(ctx context.Context, key string, ttl time.Duration) (applied bool, err error)
}

// Manager starts navigation sessions from stored routes and keeps them alive.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	store Store
	newID func() string
	ttl   time.Duration
	log   zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger routes diagnostic events to l.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithIDGenerator replaces the random session id source.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithTTL overrides SessionTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager creates a session manager on top of store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		newID: uuid.NewString,
		ttl:   SessionTTL,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime applied on start and on every heartbeat.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// StartSession creates a new navigation session for routeID.
// Every call creates a distinct session, even for the same route.
func (m *Manager) StartSession(ctx context.Context, routeID string) (*pkg.SessionSummary, error) {
	raw, found, err := m.store.Get(ctx, RouteKey(routeID))
	if err != nil {
		m.log.Error().Err(err).Str("route_id", routeID).Msg("route lookup failed")
		return nil, storeError("get route", err)
	}
	if !found {
		m.log.Debug().Str("route_id", routeID).Msg("route not found")
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, routeID)
	}

	route, err := ParseRoute(raw)
	if err != nil {
		m.log.Warn().Err(err).Str("route_id", routeID).Msg("stored route is malformed")
		return nil, fmt.Errorf("route %s: %w", routeID, err)
	}

	segments, err := Extract(route)
	if err != nil {
		m.log.Warn().Err(err).Str("route_id", routeID).Msg("route cannot be navigated")
		return nil, fmt.Errorf("route %s: %w", routeID, err)
	}

	record := pkg.SessionRecord{
		RouteID:  routeID,
		Route:    route,
		Segments: segments,
	}
	value, err := codec.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session record: %w", err)
	}

	sessionID := m.newID()
	if err := m.store.SetWithExpiry(ctx, SessionKey(sessionID), value, m.ttl); err != nil {
		m.log.Error().Err(err).Str("route_id", routeID).Str("session_id", sessionID).Msg("session write failed")
		return nil, storeError("save session", err)
	}

	m.log.Info().
		Str("route_id", routeID).
		Str("session_id", sessionID).
		Int("segments", len(segments)).
		Dur("ttl", m.ttl).
		Msg("navigation session started")

	return &pkg.SessionSummary{
		SessionID: sessionID,
		Segments:  segments,
	}, nil
}

// Heartbeat resets the session's TTL without touching its value.
func (m *Manager) Heartbeat(ctx context.Context, sessionID string) error {
	key := SessionKey(sessionID)

	exists, err := m.store.Exists(ctx, key)
	if err != nil {
		m.log.Error().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
		return storeError("check session", err)
	}
	if !exists {
		m.log.Debug().Str("session_id", sessionID).Msg("heartbeat for unknown session")
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	applied, err := m.store.RefreshExpiry(ctx, key, m.ttl)
	if err != nil {
		m.log.Error().Err(err).Str("session_id", sessionID).Msg("session refresh failed")
		return storeError("refresh session", err)
	}
	if !applied {
		// expired between the existence check and the refresh
		m.log.Debug().Str("session_id", sessionID).Msg("session expired before refresh")
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	m.log.Debug().Str("session_id", sessionID).Dur("ttl", m.ttl).Msg("heartbeat accepted")
	return nil
}

func storeError(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
