package domain

// Routing target sentinels. NodeSupervisor is the implicit entry node of
// every team; NodeEnd is only ever reached through a FINISH decision.
const (
	NodeSupervisor = "supervisor"
	NodeEnd        = "__end__"
)

// State is the conversation state a team mutates while it runs.
// Exactly one team owns a given State instance at a time; ownership
// transfers atomically at each node transition. The zero routing target
// means the team has not started yet (START -> supervisor).
type State struct {
	// Messages is the append-only conversation log.
	Messages []Message `json:"messages"`

	// Next is the active routing target: "", NodeSupervisor, a worker
	// name, or NodeEnd.
	Next string `json:"next,omitempty"`

	// Instructions is the supervisor's free-text instruction for the
	// routed worker. Overwritten on every supervisor decision.
	Instructions string `json:"instructions,omitempty"`
}

// NewState creates a state seeded with the given messages.
func NewState(messages ...Message) *State {
	s := &State{Messages: make([]Message, 0, len(messages))}
	s.Messages = append(s.Messages, messages...)
	return s
}

// Clone returns a deep copy. The engine never mutates a caller's state in
// place; each transition produces a fresh snapshot so a failed step leaves
// the last committed state untouched.
func (s *State) Clone() *State {
	out := &State{
		Next:         s.Next,
		Instructions: s.Instructions,
		Messages:     make([]Message, len(s.Messages)),
	}
	copy(out.Messages, s.Messages)
	return out
}

// Append adds a message to the log.
func (s *State) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// LastMessage returns the most recent message, or a zero Message when the
// log is empty.
func (s *State) LastMessage() Message {
	if len(s.Messages) == 0 {
		return Message{}
	}
	return s.Messages[len(s.Messages)-1]
}

// LastUserMessage returns the most recent user-originated message. It is
// the documented fallback seed for delegation when a supervisor routed a
// worker without instructions.
func (s *State) LastUserMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Terminated reports whether the team owning this state reached END.
func (s *State) Terminated() bool {
	return s.Next == NodeEnd
}
