package runner

import (
	"context"

	"github.com/aretw0/convoy/pkg/domain"
)

// IOHandler is the strategy for presenting turn progress to the user.
// This allows switching between text (CLI/TUI) and JSON (structured)
// modes without touching the driver loop.
type IOHandler interface {
	// OnMessage presents a message the moment it is committed to the
	// root log.
	OnMessage(ctx context.Context, msg domain.Message) error

	// OnNotice presents a meta-message (retry announcements, abort
	// notices) that is distinct from conversation content.
	OnNotice(ctx context.Context, notice string) error
}

// nopHandler swallows all output. Used when no handler is configured,
// e.g. for server hosts that read the TurnReport instead.
type nopHandler struct{}

func (nopHandler) OnMessage(ctx context.Context, msg domain.Message) error { return nil }
func (nopHandler) OnNotice(ctx context.Context, notice string) error       { return nil }
