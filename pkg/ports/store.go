package ports

import (
	"context"

	"github.com/aretw0/convoy/pkg/domain"
)

// SessionStore persists the ordered message log of a session. The log is
// read at turn start and written at turn end; sub-team deliberation is
// never stored, only the root log survives a turn.
type SessionStore interface {
	// Save persists the log for a given session ID, replacing any
	// previous log.
	Save(ctx context.Context, sessionID string, log []domain.Message) error

	// Load retrieves the log for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Delete removes the log for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
