package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/convoy/internal/engine"
	"github.com/aretw0/convoy/internal/testutils"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fareDigest = "CDG→AUS, 2025-06-01, $412"

// buildTripAgency wires the two-level hierarchy used across these tests:
// a root supervisor over a trip_planner sub-team whose single flight
// worker wraps a fixed-fare capability.
func buildTripAgency(t *testing.T, rootOracle, subOracle, workerOracle *testutils.ScriptedOracle) *engine.Team {
	t.Helper()

	flightWorker, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:           "flight",
		Team:           "trip_planner",
		Persona:        "You are a flight research agent.",
		Oracle:         workerOracle,
		Capability:     &testutils.FixedCapability{Result: fareDigest},
		CapabilityName: "flight_search",
	})
	require.NoError(t, err)

	sub := engine.NewTeam("trip_planner", "You plan trips.", subOracle)
	require.NoError(t, sub.AddWorker(domain.Member{Name: "flight", Description: "Searches flights"}, flightWorker))

	tripPlanner, err := engine.NewTeamWorker("trip_planner", sub)
	require.NoError(t, err)

	root := engine.NewTeam("travel_agency", "You are a travel planner.", rootOracle)
	require.NoError(t, root.AddWorker(domain.Member{Name: "trip_planner", Description: "Gives flight availabilities"}, tripPlanner))
	return root
}

// Scenario A: root routes to trip_planner, its sub-supervisor routes to
// the flight worker, the fixed fare flows back up as a single digest, and
// both teams finish.
func TestTeam_HierarchicalDelegation(t *testing.T) {
	rootOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "trip_planner", Instructions: "Find a flight CDG to AUS on 2025-06-01"},
		domain.Decision{Next: domain.Finish, Answer: "Your flight is booked research-wise."},
	)
	subOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "flight", Instructions: "CDG to AUS, 2025-06-01"},
		domain.Decision{Next: domain.Finish},
	)
	workerOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "flight_search", Instructions: `{"departure_id":"CDG","arrival_id":"AUS"}`},
		domain.Decision{Next: domain.Finish, Answer: fareDigest},
	)

	root := buildTripAgency(t, rootOracle, subOracle, workerOracle)
	state := domain.NewState(domain.UserMessage("user", "Book me a flight to Austin"))

	final, err := root.Run(context.Background(), state)
	require.NoError(t, err)
	require.True(t, final.Terminated())

	// [user message, trip_planner digest, supervisor answer]
	require.Len(t, final.Messages, 3)
	assert.Equal(t, "user", final.Messages[0].Name)

	digest := final.Messages[1]
	assert.Equal(t, "trip_planner", digest.Name)
	assert.Equal(t, domain.RoleUser, digest.Role)
	assert.Contains(t, digest.Content, fareDigest)

	assert.Equal(t, domain.NodeSupervisor, final.Messages[2].Name)
}

// Delegating to a nested team appends exactly one digest to the parent
// log regardless of how many internal steps the child performs.
func TestTeam_DelegationAppendsSingleDigest(t *testing.T) {
	rootOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "trip_planner", Instructions: "anything"},
		domain.Decision{Next: domain.Finish},
	)
	// The sub-team churns: three worker round-trips before finishing.
	subOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "flight", Instructions: "try 1"},
		domain.Decision{Next: "flight", Instructions: "try 2"},
		domain.Decision{Next: "flight", Instructions: "try 3"},
		domain.Decision{Next: domain.Finish},
	)
	workerOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: domain.Finish, Answer: "leg 1"},
		domain.Decision{Next: domain.Finish, Answer: "leg 2"},
		domain.Decision{Next: domain.Finish, Answer: "leg 3"},
	)

	root := buildTripAgency(t, rootOracle, subOracle, workerOracle)
	state := domain.NewState(domain.UserMessage("user", "go"))

	final, err := root.Run(context.Background(), state)
	require.NoError(t, err)

	// One input plus exactly one digest; the child's three internal
	// round-trips never surface.
	require.Len(t, final.Messages, 2)
	assert.Equal(t, "trip_planner", final.Messages[1].Name)
	assert.Equal(t, "leg 3", final.Messages[1].Content)
}

// Scenario B: an out-of-roster route is rejected before any worker runs.
func TestTeam_SchemaViolation(t *testing.T) {
	oracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "unknown_worker", Instructions: "do something"},
	)
	capability := &testutils.FixedCapability{Result: "should never run"}

	worker, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:       "flight",
		Oracle:     oracle,
		Capability: capability,
	})
	require.NoError(t, err)

	team := engine.NewTeam("travel_agency", "persona", oracle)
	require.NoError(t, team.AddWorker(domain.Member{Name: "flight"}, worker))

	state := domain.NewState(domain.UserMessage("user", "hello"))
	final, err := team.Run(context.Background(), state)

	var sv *domain.SchemaViolationError
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, "unknown_worker", sv.Next)
	assert.Equal(t, []string{"flight"}, sv.Members)

	// No worker invocation occurred and the committed state is intact.
	assert.Empty(t, capability.Inputs())
	require.Len(t, final.Messages, 1)
}

// Scenario C: a capability failure becomes a descriptive digest; the team
// still reaches the supervisor and finishes normally.
func TestTeam_CapabilityErrorRecovered(t *testing.T) {
	teamOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "weather", Instructions: "forecast for Austin"},
		domain.Decision{Next: domain.Finish, Answer: "Sorry, no forecast today."},
	)
	workerOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "forecast", Instructions: `{"city":"Austin"}`},
	)

	worker, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:           "weather",
		Oracle:         workerOracle,
		Capability:     &testutils.FailingCapability{Name: "forecast", Reason: errors.New("rate limited")},
		CapabilityName: "forecast",
	})
	require.NoError(t, err)

	team := engine.NewTeam("research_team", "persona", teamOracle)
	require.NoError(t, team.AddWorker(domain.Member{Name: "weather"}, worker))

	state := domain.NewState(domain.UserMessage("user", "weather in Austin?"))
	final, err := team.Run(context.Background(), state)
	require.NoError(t, err, "capability errors must not abort the turn")
	require.True(t, final.Terminated())

	// [user, error digest, supervisor answer]
	require.Len(t, final.Messages, 3)
	digest := final.Messages[1]
	assert.Equal(t, "weather", digest.Name)
	assert.Contains(t, digest.Content, "could not complete")
	assert.Contains(t, digest.Content, "rate limited")
}

// Scenario D: with a ceiling of 3 and an oracle that always routes to the
// same worker, the engine aborts exactly at the fourth transition attempt.
func TestTeam_StepCeiling(t *testing.T) {
	teamOracle := &testutils.LoopingOracle{Decision: domain.Decision{Next: "echo", Instructions: "again"}}
	workerOracle := &testutils.LoopingOracle{Decision: domain.Decision{Next: domain.Finish, Answer: "echo"}}

	worker, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:       "echo",
		Oracle:     workerOracle,
		Capability: &testutils.FixedCapability{Result: "noise"},
	})
	require.NoError(t, err)

	team := engine.NewTeam("loop_team", "persona", teamOracle, engine.WithMaxSteps(3))
	require.NoError(t, team.AddWorker(domain.Member{Name: "echo"}, worker))

	state := domain.NewState(domain.UserMessage("user", "start"))
	final, err := team.Run(context.Background(), state)

	var re *domain.RecursionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "loop_team", re.Team)
	assert.Equal(t, 3, re.Limit)

	// Transitions performed: supervisor, echo, supervisor. The fourth
	// attempt aborts, and committed progress (the one digest) is kept.
	assert.Equal(t, 2, teamOracle.Calls())
	require.Len(t, final.Messages, 2)
	assert.Equal(t, "echo", final.Messages[1].Name)
}

// Identical seed input with deterministic oracles and capabilities yields
// an identical digest on repeated invocations.
func TestTeam_Determinism(t *testing.T) {
	run := func() *domain.State {
		rootOracle := testutils.NewScriptedOracle(
			domain.Decision{Next: "trip_planner", Instructions: "CDG to AUS"},
			domain.Decision{Next: domain.Finish},
		)
		subOracle := testutils.NewScriptedOracle(
			domain.Decision{Next: "flight", Instructions: "CDG to AUS"},
			domain.Decision{Next: domain.Finish},
		)
		workerOracle := testutils.NewScriptedOracle(
			domain.Decision{Next: domain.Finish, Answer: fareDigest},
		)
		root := buildTripAgency(t, rootOracle, subOracle, workerOracle)

		final, err := root.Run(context.Background(), domain.NewState(domain.UserMessage("user", "same seed")))
		require.NoError(t, err)
		return final
	}

	first := run()
	second := run()
	assert.Equal(t, first.Messages, second.Messages)
}

// Workers always hand control back to their supervisor; the oracle is
// re-consulted after every single worker completion.
func TestTeam_StarTopology(t *testing.T) {
	teamOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "a", Instructions: "first"},
		domain.Decision{Next: "b", Instructions: "second"},
		domain.Decision{Next: domain.Finish},
	)

	mkWorker := func(name string) engine.Worker {
		w, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
			Name:       name,
			Oracle:     &testutils.LoopingOracle{Decision: domain.Decision{Next: domain.Finish, Answer: "done by " + name}},
			Capability: &testutils.FixedCapability{Result: "unused"},
		})
		require.NoError(t, err)
		return w
	}

	team := engine.NewTeam("pair_team", "persona", teamOracle)
	require.NoError(t, team.AddWorker(domain.Member{Name: "a"}, mkWorker("a")))
	require.NoError(t, team.AddWorker(domain.Member{Name: "b"}, mkWorker("b")))

	state := domain.NewState(domain.UserMessage("user", "go"))

	// Walk step by step and record the routing targets the state visits.
	var visited []string
	var done bool
	var err error
	for !done {
		state, done, err = team.Step(context.Background(), state)
		require.NoError(t, err)
		visited = append(visited, state.Next)
	}
	assert.Equal(t, []string{"a", domain.NodeSupervisor, "b", domain.NodeSupervisor, domain.NodeEnd}, visited)
	assert.Equal(t, 3, teamOracle.Calls())
}

// The delegation fallback: a route with empty instructions seeds the
// worker with the most recent user-originated message.
func TestTeam_EmptyInstructionFallback(t *testing.T) {
	teamOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "echo"}, // no instructions
		domain.Decision{Next: domain.Finish},
	)
	capability := &testutils.FixedCapability{Result: "ok"}
	workerOracle := testutils.NewScriptedOracle(
		domain.Decision{Next: domain.Finish, Answer: "ok"},
	)

	worker, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:       "echo",
		Oracle:     workerOracle,
		Capability: capability,
	})
	require.NoError(t, err)

	var startedWith string
	hooks := domain.LifecycleHooks{
		OnWorkerStart: func(_ context.Context, ev *domain.WorkerEvent) {
			startedWith = ev.Instruction
		},
	}

	team := engine.NewTeam("fallback_team", "persona", teamOracle, engine.WithHooks(hooks))
	require.NoError(t, team.AddWorker(domain.Member{Name: "echo"}, worker))

	state := domain.NewState(domain.UserMessage("user", "the actual request"))
	_, err = team.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "the actual request", startedWith)
}

func TestTeam_AddWorkerValidation(t *testing.T) {
	team := engine.NewTeam("t", "p", testutils.NewScriptedOracle())
	w, err := engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
		Name:       "x",
		Oracle:     testutils.NewScriptedOracle(),
		Capability: &testutils.FixedCapability{},
	})
	require.NoError(t, err)

	assert.Error(t, team.AddWorker(domain.Member{Name: ""}, w))
	assert.Error(t, team.AddWorker(domain.Member{Name: domain.NodeSupervisor}, w))
	assert.Error(t, team.AddWorker(domain.Member{Name: domain.Finish}, w))
	assert.NoError(t, team.AddWorker(domain.Member{Name: "x"}, w))
	assert.Error(t, team.AddWorker(domain.Member{Name: "x"}, w), "duplicate names are rejected")
}
