// Package convoy orchestrates hierarchical teams of agents.
//
// A team pairs a supervisor with a roster of workers. The supervisor is
// driven by a decision oracle (typically an LLM) that, after every
// exchange, picks the next worker or finishes the conversation. Workers
// come in two kinds behind one contract: capability-bound workers wrap a
// single external action in a short think/act loop, and team-bound
// workers delegate to a whole nested team whose outcome collapses into a
// single digest message.
//
// The library is split along hexagonal lines. Package pkg/domain holds
// the pure conversation model, pkg/ports the collaborator interfaces,
// and internal/engine the routing state machine. Package pkg/runner
// drives turns against a session store, and pkg/adapters exposes the
// engine over HTTP, MCP and the CLI.
//
// Minimal usage:
//
//	agency, err := convoy.New(convoy.TeamDef{
//		Name:    "trip_agency",
//		Persona: "You coordinate a travel agency.",
//		Workers: []convoy.WorkerDef{
//			{Name: "flight_finder", Description: "Finds flights.", Capability: flights},
//		},
//	}, oracle)
//	if err != nil {
//		return err
//	}
//	state, err := agency.Run(ctx, agency.Start(nil, "Fly me to Austin"))
package convoy
