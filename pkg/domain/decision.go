package domain

// Finish is the sentinel a supervisor returns to terminate its team for
// the current turn. It is terminal for that team only: a parent sees the
// digest, never the FINISH signal itself.
const Finish = "FINISH"

// Decision is a supervisor's routing verdict, produced once per
// supervisor invocation by the decision oracle.
type Decision struct {
	// Next is required: a declared roster member or Finish.
	Next string `json:"next"`

	// Instructions is the free-text task handed to the routed worker.
	Instructions string `json:"instructions,omitempty"`

	// Comment explains the routing step. It is surfaced to observers but
	// never enters the conversation log.
	Comment string `json:"comment,omitempty"`

	// Answer, when populated, is appended to the log as the supervisor's
	// own contribution. This is the only way a supervisor speaks.
	Answer string `json:"answer,omitempty"`
}

// Finished reports whether the decision terminates the team.
func (d Decision) Finished() bool {
	return d.Next == Finish
}

// Validate checks the decision against a team's static roster. A Next
// value outside the roster (or Finish) is a schema violation and must be
// rejected before being applied; defaulting silently would mask an oracle
// failure with an unpredictable route.
func (d Decision) Validate(team string, roster Roster) error {
	if d.Next == Finish {
		return nil
	}
	if roster.Has(d.Next) {
		return nil
	}
	return &SchemaViolationError{
		Team:    team,
		Next:    d.Next,
		Members: roster.Names(),
	}
}
