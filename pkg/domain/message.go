package domain

// Role identifies the conversational origin of a message.
type Role string

const (
	// RoleSystem marks engine-generated notices (failure reports, resets).
	RoleSystem Role = "system"
	// RoleUser marks messages originating from outside the team: the human
	// input, and worker digests re-entering a log (mirroring how delegated
	// results are presented back to a supervisor as external input).
	RoleUser Role = "user"
	// RoleAssistant marks content a supervisor contributes directly (the
	// Answer field of a decision).
	RoleAssistant Role = "assistant"
)

// Message is one entry in a team's append-only conversation log.
// Sequence order within a log is causal order.
type Message struct {
	Role    Role   `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// UserMessage builds a user-originated message.
func UserMessage(name, content string) Message {
	return Message{Role: RoleUser, Name: name, Content: content}
}

// SystemMessage builds an engine notice attributed to the system.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Name: "system", Content: content}
}
