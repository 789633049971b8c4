package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy/internal/testutils"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/dsl"
)

func TestTeamBuilder_Build(t *testing.T) {
	flights := &testutils.FixedCapability{Result: "ok"}
	search := &testutils.FixedCapability{Result: "ok"}

	agency := dsl.Team("trip_agency").
		Persona("You coordinate a travel agency.").
		MaxSteps(30)

	agency.Capability("flight_finder", flights).
		Describe("Finds flight options.").
		Persona("You search flights.").
		Tool("search_flights", "Searches live flight listings.").
		MaxCalls(3)

	research := agency.Subteam("research_team").
		Describe("Researches destinations and weather.")
	research.Capability("search", search).
		Describe("Searches the web.")

	def := agency.Build()

	assert.Equal(t, "trip_agency", def.Name)
	assert.Equal(t, 30, def.MaxSteps)
	require.Len(t, def.Workers, 2)

	ff := def.Workers[0]
	assert.Equal(t, "flight_finder", ff.Name)
	assert.Equal(t, "Finds flight options.", ff.Description)
	assert.Equal(t, "search_flights", ff.CapabilityName)
	assert.Equal(t, 3, ff.MaxCalls)
	assert.Nil(t, ff.Team)

	rt := def.Workers[1]
	assert.Equal(t, "research_team", rt.Name)
	assert.Equal(t, "Researches destinations and weather.", rt.Description)
	require.NotNil(t, rt.Team)
	require.Len(t, rt.Team.Workers, 1)
	assert.Equal(t, "search", rt.Team.Workers[0].Name)
}

func TestTeamBuilder_Compile(t *testing.T) {
	oracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "echo", Instructions: "say hi"},
		domain.Decision{Next: "echo_tool", Instructions: "hi"},
		domain.Decision{Next: domain.Finish, Answer: "hi back"},
		domain.Decision{Next: domain.Finish, Answer: "done"},
	)

	agency := dsl.Team("agency").Persona("Coordinate.")
	agency.Capability("echo", &testutils.FixedCapability{Result: "hi back"}).
		Describe("Echoes input.").
		Tool("echo_tool", "Echoes.")

	compiled, err := agency.Compile(oracle)
	require.NoError(t, err)

	state, err := compiled.Run(context.Background(), compiled.Start(nil, "hello"))
	require.NoError(t, err)
	assert.True(t, state.Terminated())
	assert.Equal(t, "done", state.LastMessage().Content)
}

func TestTeamBuilder_CompileRejectsEmptyTeam(t *testing.T) {
	_, err := dsl.Team("empty").Compile(testutils.NewScriptedOracle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no workers")
}
