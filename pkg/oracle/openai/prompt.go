package openai

import (
	"fmt"
	"strings"

	"github.com/aretw0/convoy/pkg/domain"
)

// SystemPrompt renders the full system preamble for a supervisor call:
// the persona, the roster with member descriptions, and the routing
// contract the oracle must honor.
func SystemPrompt(persona string, roster domain.Roster) string {
	var b strings.Builder

	if p := strings.TrimSpace(persona); p != "" {
		b.WriteString(p)
		b.WriteString("\n\n")
	}

	b.WriteString("You are a supervisor managing a conversation between the following members:\n")
	for _, m := range roster.Members() {
		fmt.Fprintf(&b, "- %s: %s\n", m.Name, m.Description)
	}

	b.WriteString("\nGiven the conversation so far, decide who acts next. ")
	b.WriteString("Each member performs its task and reports back with results. ")
	b.WriteString("Route to exactly one member per decision, with clear instructions for what it should do. ")
	b.WriteString("When the request is fully handled, respond with FINISH and put the final reply in the answer field. ")
	b.WriteString("Respond only with a JSON object matching the provided schema.")

	return b.String()
}

// renderHistory flattens a conversation log into chat turns. Named
// speakers are prefixed into the content since the digests of several
// workers share the user role on the wire.
func renderHistory(history []domain.Message) []chatTurn {
	turns := make([]chatTurn, 0, len(history))
	for _, msg := range history {
		content := msg.Content
		if msg.Name != "" && msg.Name != "user" {
			content = fmt.Sprintf("[%s] %s", msg.Name, msg.Content)
		}
		turns = append(turns, chatTurn{role: msg.Role, content: content})
	}
	return turns
}

type chatTurn struct {
	role    domain.Role
	content string
}
