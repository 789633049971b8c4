package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to session logs. Per-session mutexes are
// reference counted so idle sessions do not leak lock entries, and an
// optional distributed locker extends the same guarantee across
// replicas.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock TTL. A turn that outlives
// the TTL loses its exclusivity, so size it for the slowest oracle.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller must Lock entry.mu and call release(sessionID) after
// unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session log.
func (m *Manager) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var log []domain.Message
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		log, err = m.store.Load(ctx, sessionID)
		return err
	})
	return log, err
}

// LoadOrStart loads a session log, initializing an empty one atomically
// when the session does not exist yet.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var log []domain.Message
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		log, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		// Persist the empty log immediately to reserve the ID.
		log = []domain.Message{}
		if err := m.store.Save(ctx, sessionID, log); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return log, err
}

// Save persists the session log.
func (m *Manager) Save(ctx context.Context, sessionID string, log []domain.Message) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, log)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock runs fn while holding the session's lock. When a distributed
// locker is configured, the local mutex is held first so at most one
// goroutine per process contends for the remote lock.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
