package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/schema"
)

func TestRoutingSchema_TargetsMatchRoster(t *testing.T) {
	roster := domain.NewRoster(
		domain.Member{Name: "flight_finder", Description: "Finds flights."},
		domain.Member{Name: "hotel_finder", Description: "Finds hotels."},
	)

	s := schema.RoutingSchema(roster)

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	next, ok := props["next"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"flight_finder", "hotel_finder", "FINISH"}, next["enum"])
	assert.Equal(t, []string{"next"}, s["required"])
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Decision
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"next":"flight_finder","instructions":"CDG to AUS"}`,
			want: domain.Decision{Next: "flight_finder", Instructions: "CDG to AUS"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"next\":\"FINISH\",\"answer\":\"All set.\"}\n```",
			want: domain.Decision{Next: "FINISH", Answer: "All set."},
		},
		{
			name: "json with surrounding prose",
			raw:  "Here is my decision: {\"next\":\"hotel_finder\",\"comment\":\"need lodging\"} hope that helps",
			want: domain.Decision{Next: "hotel_finder", Comment: "need lodging"},
		},
		{
			name: "braces inside strings",
			raw:  `{"next":"FINISH","answer":"use {city} as a placeholder"}`,
			want: domain.Decision{Next: "FINISH", Answer: "use {city} as a placeholder"},
		},
		{
			name:    "no json at all",
			raw:     "I think the flight finder should go next.",
			wantErr: true,
		},
		{
			name:    "missing next",
			raw:     `{"instructions":"do something"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"next": "flight_finder"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.ParseDecision(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
