package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy/pkg/domain"
)

func TestCollector_CountsEngineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	hooks := c.Hooks()
	ctx := context.Background()

	base := func(team string) domain.EventBase {
		return domain.EventBase{Timestamp: time.Now(), Team: team}
	}

	hooks.OnDecision(ctx, &domain.DecisionEvent{
		EventBase: base("travel_agency"),
		Decision:  domain.Decision{Next: "trip_planner"},
	})
	hooks.OnDecision(ctx, &domain.DecisionEvent{
		EventBase: base("travel_agency"),
		Decision:  domain.Decision{Next: domain.Finish},
	})

	start := base("travel_agency")
	hooks.OnWorkerStart(ctx, &domain.WorkerEvent{EventBase: start, Worker: "trip_planner"})
	ret := base("travel_agency")
	ret.Timestamp = start.Timestamp.Add(40 * time.Millisecond)
	hooks.OnWorkerReturn(ctx, &domain.WorkerEvent{EventBase: ret, Worker: "trip_planner"})

	hooks.OnCapabilityReturn(ctx, &domain.CapabilityEvent{
		EventBase: base("travel_agency"), Worker: "trip_planner", Capability: "google_flights",
	})
	hooks.OnCapabilityReturn(ctx, &domain.CapabilityEvent{
		EventBase: base("travel_agency"), Worker: "trip_planner", Capability: "google_flights", IsError: true,
	})

	hooks.OnTeamFinish(ctx, &domain.EventBase{Team: "travel_agency"})
	c.RecordTurn(domain.TurnCompleted)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("travel_agency", "trip_planner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("travel_agency", domain.Finish)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.workerDispatch.WithLabelValues("travel_agency", "trip_planner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.capabilityCalls.WithLabelValues("trip_planner", "google_flights", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.capabilityCalls.WithLabelValues("trip_planner", "google_flights", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.teamFinishes.WithLabelValues("travel_agency")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.turns.WithLabelValues("completed")))

	// Duration observed exactly once, and the start map is drained.
	count := testutil.CollectAndCount(c.workerDuration)
	assert.Equal(t, 1, count)
	c.mu.Lock()
	assert.Empty(t, c.starts)
	c.mu.Unlock()
}

func TestCollector_ReturnWithoutStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Hooks().OnWorkerReturn(context.Background(), &domain.WorkerEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Team: "t"},
		Worker:    "w",
	})

	require.Equal(t, 0, testutil.CollectAndCount(c.workerDuration))
}

type stubEngine struct {
	report *domain.TurnReport
	err    error
}

func (e *stubEngine) Turn(ctx context.Context, sessionID string, input string) (*domain.TurnReport, error) {
	return e.report, e.err
}

func TestCollector_InstrumentTurnEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	completed := c.InstrumentTurnEngine(&stubEngine{
		report: &domain.TurnReport{SessionID: "s1", Status: domain.TurnCompleted},
	})
	report, err := completed.Turn(context.Background(), "s1", "hi")
	require.NoError(t, err)
	require.NotNil(t, report)

	// Aborted turns come back with both a report and an error; the
	// report's status still counts.
	aborted := c.InstrumentTurnEngine(&stubEngine{
		report: &domain.TurnReport{SessionID: "s2", Status: domain.TurnAborted},
		err:    context.DeadlineExceeded,
	})
	_, err = aborted.Turn(context.Background(), "s2", "hi")
	require.Error(t, err)

	failed := c.InstrumentTurnEngine(&stubEngine{err: context.Canceled})
	_, err = failed.Turn(context.Background(), "s3", "hi")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.turns.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.turns.WithLabelValues("aborted")))
}
