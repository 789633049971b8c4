package domain

// TurnStatus summarizes how a turn ended.
type TurnStatus string

const (
	// TurnCompleted means the root team reached END.
	TurnCompleted TurnStatus = "completed"
	// TurnAborted means the turn failed hard (schema violation, recursion
	// ceiling, oracle exhaustion). Progress committed before the abort is
	// kept and a failure notice is the last message of the log.
	TurnAborted TurnStatus = "aborted"
)

// TurnReport is the outcome of driving one external input through the
// root team.
type TurnReport struct {
	SessionID string     `json:"session_id"`
	Status    TurnStatus `json:"status"`

	// NewMessages are the messages appended during this turn, in order,
	// starting with the user input itself.
	NewMessages []Message `json:"new_messages"`

	// Log is the full persisted log after the turn.
	Log []Message `json:"log"`

	// Steps is the number of root-team transitions performed.
	Steps int `json:"steps"`
}

// Reply returns the last non-system message of the turn, which is the
// closest thing a turn has to a final answer.
func (r *TurnReport) Reply() (Message, bool) {
	for i := len(r.NewMessages) - 1; i >= 0; i-- {
		if r.NewMessages[i].Role != RoleSystem {
			return r.NewMessages[i], true
		}
	}
	return Message{}, false
}
