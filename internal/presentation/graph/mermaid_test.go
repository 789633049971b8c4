package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/convoy"
)

func TestGenerateMermaid_FlatTeam(t *testing.T) {
	def := convoy.TeamDef{
		Name: "travel_agency",
		Workers: []convoy.WorkerDef{
			{Name: "trip_planner", CapabilityName: "google_flights"},
		},
	}

	out := GenerateMermaid(def)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `subgraph travel_agency["travel_agency"]`)
	assert.Contains(t, out, `travel_agency_supervisor(("supervisor"))`)
	assert.Contains(t, out, `travel_agency_trip_planner[["trip_planner<br/>google_flights"]]`)
	assert.Contains(t, out, `travel_agency_supervisor -- "trip_planner" --> travel_agency_trip_planner`)
	assert.Contains(t, out, `travel_agency_trip_planner -. digest .-> travel_agency_supervisor`)
}

func TestGenerateMermaid_NestedTeam(t *testing.T) {
	def := convoy.TeamDef{
		Name: "travel_agency",
		Workers: []convoy.WorkerDef{
			{
				Name: "research_team",
				Team: &convoy.TeamDef{
					Name: "research_team",
					Workers: []convoy.WorkerDef{
						{Name: "search", CapabilityName: "web_search"},
					},
				},
			},
		},
	}

	out := GenerateMermaid(def)

	assert.Contains(t, out, `subgraph travel_agency_research_team["research_team"]`)
	assert.Contains(t, out, `travel_agency_research_team_supervisor(("supervisor"))`)
	assert.Contains(t, out, `travel_agency_supervisor -- "research_team" --> travel_agency_research_team_supervisor`)
	assert.Contains(t, out, `travel_agency_research_team_search[["search<br/>web_search"]]`)

	// One closing "end" per subgraph.
	assert.Equal(t, 2, strings.Count(out, "end\n"))
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "a_b_c_d", sanitizeMermaidID("a.b-c/d"))
}
