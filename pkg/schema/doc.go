// Package schema defines the wire format of routing decisions exchanged
// with decision oracles.
//
// It renders the JSON Schema that constrains a structured-output oracle
// to the team's static roster, and parses oracle responses tolerantly:
// code fences and prose around the JSON object are stripped rather than
// rejected, since chat models wrap payloads inconsistently.
package schema
