package capabilities_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy/pkg/capabilities"
	"github.com/aretw0/convoy/pkg/domain"
)

func TestFlights_Invoke(t *testing.T) {
	var captured map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"best_flights": []map[string]any{
				{
					"flights":        []map[string]any{{"airline": "Air France"}, {"airline": "Delta"}},
					"total_duration": 720,
					"price":          412,
				},
			},
		})
	}))
	defer server.Close()

	flights := capabilities.NewFlights("key", capabilities.WithFlightsBaseURL(server.URL))

	out, err := flights.Invoke(context.Background(), `{"departure_id":"CDG","arrival_id":"AUS","outbound_date":"2025-06-01","return_date":"2025-06-10","currency":"EUR"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "CDG -> AUS")
	assert.Contains(t, out, "Air France + Delta")
	assert.Contains(t, out, "412")

	assert.Equal(t, "google_flights", captured["engine"][0])
	assert.Equal(t, "1", captured["type"][0]) // round trip
	assert.Equal(t, "EUR", captured["currency"][0])
}

func TestFlights_MissingFields(t *testing.T) {
	flights := capabilities.NewFlights("key")

	_, err := flights.Invoke(context.Background(), `{"departure_id":"CDG"}`)
	require.Error(t, err)

	var capErr *domain.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "search_flights", capErr.Capability)
}

func TestFlights_NonJSONInstruction(t *testing.T) {
	flights := capabilities.NewFlights("key")

	_, err := flights.Invoke(context.Background(), "find me a flight to Austin")
	require.Error(t, err)

	var capErr *domain.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Contains(t, capErr.Error(), "JSON object")
}

func TestFlights_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	flights := capabilities.NewFlights("key", capabilities.WithFlightsBaseURL(server.URL))

	out, err := flights.Invoke(context.Background(), `{"departure_id":"CDG","arrival_id":"XXX","outbound_date":"2025-06-01"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No flights found")
}

func TestFlights_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	flights := capabilities.NewFlights("key", capabilities.WithFlightsBaseURL(server.URL))

	_, err := flights.Invoke(context.Background(), `{"departure_id":"CDG","arrival_id":"AUS","outbound_date":"2025-06-01"}`)
	require.Error(t, err)

	var capErr *domain.CapabilityError
	assert.ErrorAs(t, err, &capErr)
}
