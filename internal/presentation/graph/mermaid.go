// Package graph renders a team hierarchy as a Mermaid flowchart, for the
// CLI graph command and documentation.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/convoy"
)

// GenerateMermaid produces Mermaid flowchart syntax for a team definition.
// Shapes carry semantics:
//   - supervisor: ((circle))
//   - capability worker: [[subroutine]]
//   - nested team: a subgraph with its own supervisor
//
// Solid arrows are supervisor dispatch, dotted arrows are the digest path
// back to the supervisor.
func GenerateMermaid(def convoy.TeamDef) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeTeam(&sb, def, def.Name, 1)
	return sb.String()
}

func writeTeam(sb *strings.Builder, def convoy.TeamDef, scope string, depth int) {
	indent := strings.Repeat("    ", depth)
	supID := sanitizeMermaidID(scope) + "_supervisor"

	fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, sanitizeMermaidID(scope), def.Name)
	fmt.Fprintf(sb, "%s    %s((\"supervisor\"))\n", indent, supID)

	for _, w := range def.Workers {
		workerScope := scope + "/" + w.Name
		workerID := sanitizeMermaidID(workerScope)

		if w.Team != nil {
			writeTeam(sb, *w.Team, workerScope, depth+1)
			subSup := workerID + "_supervisor"
			fmt.Fprintf(sb, "%s    %s -- \"%s\" --> %s\n", indent, supID, w.Name, subSup)
			fmt.Fprintf(sb, "%s    %s -. digest .-> %s\n", indent, subSup, supID)
			continue
		}

		capability := w.CapabilityName
		if capability == "" {
			capability = w.Name
		}
		fmt.Fprintf(sb, "%s    %s[[\"%s<br/>%s\"]]\n", indent, workerID, w.Name, capability)
		fmt.Fprintf(sb, "%s    %s -- \"%s\" --> %s\n", indent, supID, w.Name, workerID)
		fmt.Fprintf(sb, "%s    %s -. digest .-> %s\n", indent, workerID, supID)
	}

	fmt.Fprintf(sb, "%send\n", indent)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
