package ports

import (
	"context"

	"github.com/aretw0/convoy/pkg/domain"
)

// Oracle is the decision backend a supervisor consults to pick the next
// worker or terminate. Implementations receive the supervisor's persona
// preamble, the full conversation log of the team, and the static roster
// the decision must target.
//
// Failure modes:
//   - transport/backend failure: wrap domain.ErrOracleUnavailable so the
//     driver can retry the step with bounded backoff;
//   - malformed output: return the raw parse error; the engine rejects
//     out-of-roster targets as SchemaViolation at apply time regardless.
//
// Calls are blocking relative to the controlling loop and must honor ctx
// cancellation and deadlines.
type Oracle interface {
	Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error)
}
