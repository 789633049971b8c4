package ports

import (
	"context"

	"github.com/aretw0/convoy/pkg/domain"
)

// TurnEngine is the driving port hosts (HTTP, MCP, CLI) use to submit one
// external input and receive the completed turn. Implementations load the
// session, drive the root team to END or abort, persist, and report.
type TurnEngine interface {
	Turn(ctx context.Context, sessionID string, input string) (*domain.TurnReport, error)
}
