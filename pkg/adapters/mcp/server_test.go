package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/internal/testutils"
	"github.com/aretw0/convoy/pkg/adapters/memory"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/runner"
	"github.com/aretw0/convoy/pkg/session"
)

func newServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()

	oracle := testutils.NewScriptedOracle(
		domain.Decision{Next: "flight_finder", Instructions: "find flights"},
		domain.Decision{Next: "search_flights", Instructions: `{"departure_id":"CDG"}`},
		domain.Decision{Next: domain.Finish, Answer: "AF123 found"},
		domain.Decision{Next: domain.Finish, Answer: "Here is your flight: AF123."},
	)
	agency, err := convoy.New(convoy.TeamDef{
		Name:    "travel_agency",
		Persona: "Coordinate travel research.",
		Workers: []convoy.WorkerDef{
			{
				Name:           "flight_finder",
				Description:    "Finds flights",
				Capability:     &testutils.FixedCapability{Result: "AF123"},
				CapabilityName: "search_flights",
			},
		},
	}, oracle)
	require.NoError(t, err)

	sessions := session.NewManager(memory.NewStore())
	eng := runner.NewRunner(agency, sessions)
	return NewServer(eng, sessions, agency), sessions
}

func TestConverse_CompletesTurn(t *testing.T) {
	srv, sessions := newServer(t)

	resp, err := srv.handleConverse(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"session_id": "s1",
		"input":      "book me a flight to Lisbon",
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, domain.TurnCompleted, resp.Status)
	assert.Contains(t, resp.Reply, "AF123")
	assert.NotEmpty(t, resp.Messages)

	log, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, resp.Messages[len(resp.Messages)-1], log[len(log)-1])
}

func TestConverse_Validation(t *testing.T) {
	srv, _ := newServer(t)

	_, err := srv.handleConverse(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"input": "hello",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_id")

	_, err = srv.handleConverse(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"session_id": "s1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestResetSession(t *testing.T) {
	srv, sessions := newServer(t)

	require.NoError(t, sessions.Save(context.Background(), "s1", []domain.Message{
		domain.UserMessage("user", "hello"),
	}))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"session_id": "s1"}
	result, err := srv.handleReset(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	_, err = sessions.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestListSessions(t *testing.T) {
	srv, sessions := newServer(t)

	require.NoError(t, sessions.Save(context.Background(), "s1", []domain.Message{}))
	require.NoError(t, sessions.Save(context.Background(), "s2", []domain.Message{}))

	result, err := srv.handleListSessions(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Contains(t, text.Text, "s1")
	assert.Contains(t, text.Text, "s2")
}

func TestRosterView(t *testing.T) {
	srv, _ := newServer(t)

	view := viewTeam(srv.agency.Definition())
	assert.Equal(t, "travel_agency", view.Name)
	require.Len(t, view.Workers, 1)
	assert.Equal(t, "search_flights", view.Workers[0].Capability)
}
