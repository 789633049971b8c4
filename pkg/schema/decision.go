package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/convoy/pkg/domain"
)

// RoutingSchema builds the JSON Schema for a supervisor's decision,
// constraining the next field to the roster plus the finish sentinel.
// The map form is accepted directly by structured-output APIs.
func RoutingSchema(roster domain.Roster) map[string]any {
	targets := append(roster.Names(), domain.Finish)

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"next"},
		"properties": map[string]any{
			"next": map[string]any{
				"type":        "string",
				"enum":        targets,
				"description": "The member to act next, or FINISH to end the conversation.",
			},
			"instructions": map[string]any{
				"type":        "string",
				"description": "The task for the routed member. Leave empty when finishing.",
			},
			"comment": map[string]any{
				"type":        "string",
				"description": "Short rationale for the routing step.",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "The reply to contribute to the conversation, if any.",
			},
		},
	}
}

// ParseDecision extracts a routing decision from a raw oracle response.
// It tolerates markdown code fences and surrounding prose, but the JSON
// object itself must carry a next field.
func ParseDecision(raw string) (domain.Decision, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return domain.Decision{}, fmt.Errorf("no JSON object found in oracle response")
	}

	var d domain.Decision
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return domain.Decision{}, fmt.Errorf("failed to parse decision: %w", err)
	}
	if strings.TrimSpace(d.Next) == "" {
		return domain.Decision{}, fmt.Errorf("decision is missing the next field")
	}
	d.Next = strings.TrimSpace(d.Next)
	return d, nil
}

// extractJSON returns the first top-level JSON object in the text,
// skipping code fences.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
