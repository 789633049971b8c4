package convoy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	convoy "github.com/aretw0/convoy"
	"github.com/aretw0/convoy/internal/testutils"
	"github.com/aretw0/convoy/pkg/domain"
)

func TestNew_Validation(t *testing.T) {
	oracle := testutils.NewScriptedOracle()

	tests := []struct {
		name    string
		def     convoy.TeamDef
		oracle  *testutils.ScriptedOracle
		wantErr string
	}{
		{
			name:    "missing oracle",
			def:     convoy.TeamDef{Name: "agency"},
			wantErr: "oracle is required",
		},
		{
			name:    "missing team name",
			def:     convoy.TeamDef{},
			oracle:  oracle,
			wantErr: "team name is required",
		},
		{
			name:    "no workers",
			def:     convoy.TeamDef{Name: "agency"},
			oracle:  oracle,
			wantErr: "declares no workers",
		},
		{
			name: "worker binds nothing",
			def: convoy.TeamDef{
				Name:    "agency",
				Workers: []convoy.WorkerDef{{Name: "idle"}},
			},
			oracle:  oracle,
			wantErr: "neither a capability nor a team",
		},
		{
			name: "worker binds both kinds",
			def: convoy.TeamDef{
				Name: "agency",
				Workers: []convoy.WorkerDef{{
					Name:       "confused",
					Capability: &testutils.FixedCapability{Result: "ok"},
					Team:       &convoy.TeamDef{Name: "sub"},
				}},
			},
			oracle:  oracle,
			wantErr: "binds both a capability and a team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.oracle == nil {
				_, err = convoy.New(tt.def, nil)
			} else {
				_, err = convoy.New(tt.def, tt.oracle)
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAgency_RunFlatTeam(t *testing.T) {
	oracle := testutils.NewScriptedOracle(
		// supervisor loop for the flight worker
		domain.Decision{Next: "flight_finder", Instructions: "CDG to AUS on 2025-06-01"},
		// flight worker think/act loop: one call, then finish
		domain.Decision{Next: "search_flights", Instructions: "CDG AUS 2025-06-01"},
		domain.Decision{Next: domain.Finish, Answer: "Air France, $412 round trip."},
		// supervisor wraps up
		domain.Decision{Next: domain.Finish, Answer: "Cheapest option is Air France at $412."},
	)

	flights := &testutils.FixedCapability{Result: "AF: CDG-AUS $412"}
	agency, err := convoy.New(convoy.TeamDef{
		Name:    "trip_agency",
		Persona: "You coordinate a travel agency.",
		Workers: []convoy.WorkerDef{{
			Name:           "flight_finder",
			Description:    "Finds flight options.",
			Persona:        "You search flights.",
			Capability:     flights,
			CapabilityName: "search_flights",
		}},
	}, oracle)
	require.NoError(t, err)

	state, err := agency.Run(context.Background(), agency.Start(nil, "Get me to Austin in June"))
	require.NoError(t, err)

	require.True(t, state.Terminated())
	last := state.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, "Cheapest option is Air France at $412.", last.Content)
	assert.Equal(t, []string{"CDG AUS 2025-06-01"}, flights.Inputs())
}

func TestAgency_StartSeedsHistory(t *testing.T) {
	oracle := testutils.NewScriptedOracle()
	agency, err := convoy.New(convoy.TeamDef{
		Name: "agency",
		Workers: []convoy.WorkerDef{{
			Name:        "echo",
			Description: "Echoes.",
			Capability:  &testutils.FixedCapability{Result: "ok"},
		}},
	}, oracle)
	require.NoError(t, err)

	history := []domain.Message{domain.UserMessage("user", "earlier turn")}
	state := agency.Start(history, "new question")

	require.Len(t, state.Messages, 2)
	assert.Equal(t, "earlier turn", state.Messages[0].Content)
	assert.Equal(t, "new question", state.Messages[1].Content)
	assert.Equal(t, "", state.Next)
}

func TestAgency_Introspection(t *testing.T) {
	def := convoy.TeamDef{
		Name:     "agency",
		MaxSteps: 12,
		Workers: []convoy.WorkerDef{
			{Name: "a", Description: "first", Capability: &testutils.FixedCapability{Result: "x"}},
			{Name: "b", Description: "second", Team: &convoy.TeamDef{
				Name: "sub",
				Workers: []convoy.WorkerDef{
					{Name: "c", Description: "leaf", Capability: &testutils.FixedCapability{Result: "y"}},
				},
			}},
		},
	}
	agency, err := convoy.New(def, testutils.NewScriptedOracle())
	require.NoError(t, err)

	assert.Equal(t, "agency", agency.Name())
	assert.Equal(t, 12, agency.MaxSteps())
	assert.Equal(t, []string{"a", "b"}, agency.Roster().Names())
	assert.Equal(t, "sub", agency.Definition().Workers[1].Team.Name)
}
