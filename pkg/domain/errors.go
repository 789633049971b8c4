package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrOracleUnavailable marks a transport-level failure of the decision
// oracle. Oracle adapters wrap their errors with it so the driver can
// retry the step with bounded backoff.
var ErrOracleUnavailable = errors.New("decision oracle unavailable")

// SchemaViolationError reports an oracle decision whose routing target is
// neither a declared roster member nor FINISH. It is fatal to the current
// team invocation and propagates to the caller.
type SchemaViolationError struct {
	Team    string
	Next    string
	Members []string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("team %s: oracle routed to undeclared worker %q (members: %s)",
		e.Team, e.Next, strings.Join(e.Members, ", "))
}

// RecursionError reports a team that breached its transition ceiling
// without reaching END. The turn aborts hard; progress already committed
// is kept.
type RecursionError struct {
	Team  string
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("team %s: step ceiling of %d transitions exceeded", e.Team, e.Limit)
}

// CapabilityError reports a failed external capability invocation.
// Workers recover it locally into a descriptive digest; it never escapes
// a worker raw.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
