// Package observability exports engine lifecycle activity as Prometheus
// metrics. The collector plugs into an agency through lifecycle hooks and
// is served by the HTTP adapter's /metrics endpoint.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// Collector records routing, worker and capability activity.
type Collector struct {
	decisions       *prometheus.CounterVec
	workerDispatch  *prometheus.CounterVec
	workerDuration  *prometheus.HistogramVec
	capabilityCalls *prometheus.CounterVec
	teamFinishes    *prometheus.CounterVec
	turns           *prometheus.CounterVec

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewCollector registers the metric set on reg. Pass
// prometheus.DefaultRegisterer unless the caller isolates registries.
func NewCollector(reg prometheus.Registerer) *Collector {
	return &Collector{
		decisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "convoy",
				Name:      "decisions_total",
				Help:      "Supervisor routing decisions by team and target",
			},
			[]string{"team", "next"},
		),
		workerDispatch: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "convoy",
				Name:      "worker_dispatches_total",
				Help:      "Worker dispatches by team and worker",
			},
			[]string{"team", "worker"},
		),
		workerDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "convoy",
				Name:      "worker_duration_seconds",
				Help:      "Wall time between worker dispatch and digest",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"team", "worker"},
		),
		capabilityCalls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "convoy",
				Name:      "capability_calls_total",
				Help:      "Capability invocations by worker, capability and outcome",
			},
			[]string{"worker", "capability", "outcome"},
		),
		teamFinishes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "convoy",
				Name:      "team_finishes_total",
				Help:      "Completed team invocations",
			},
			[]string{"team"},
		),
		turns: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "convoy",
				Name:      "turns_total",
				Help:      "Driven turns by outcome",
			},
			[]string{"outcome"},
		),
		starts: make(map[string]time.Time),
	}
}

// Hooks returns the lifecycle hook set feeding this collector. Merge it
// with any other hooks via domain.LifecycleHooks.Merge.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			c.decisions.WithLabelValues(e.Team, e.Decision.Next).Inc()
		},
		OnWorkerStart: func(_ context.Context, e *domain.WorkerEvent) {
			c.workerDispatch.WithLabelValues(e.Team, e.Worker).Inc()
			c.mu.Lock()
			c.starts[e.Team+"/"+e.Worker] = e.Timestamp
			c.mu.Unlock()
		},
		OnWorkerReturn: func(_ context.Context, e *domain.WorkerEvent) {
			key := e.Team + "/" + e.Worker
			c.mu.Lock()
			start, ok := c.starts[key]
			delete(c.starts, key)
			c.mu.Unlock()
			if ok {
				c.workerDuration.WithLabelValues(e.Team, e.Worker).Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
		OnCapabilityReturn: func(_ context.Context, e *domain.CapabilityEvent) {
			outcome := "ok"
			if e.IsError {
				outcome = "error"
			}
			c.capabilityCalls.WithLabelValues(e.Worker, e.Capability, outcome).Inc()
		},
		OnTeamFinish: func(_ context.Context, e *domain.EventBase) {
			c.teamFinishes.WithLabelValues(e.Team).Inc()
		},
	}
}

// RecordTurn counts one driven turn by its final status.
func (c *Collector) RecordTurn(status domain.TurnStatus) {
	c.turns.WithLabelValues(string(status)).Inc()
}

type instrumentedEngine struct {
	next      ports.TurnEngine
	collector *Collector
}

// InstrumentTurnEngine decorates an engine so every turn that yields a
// report is counted by status, including aborted turns returned
// alongside an error.
func (c *Collector) InstrumentTurnEngine(next ports.TurnEngine) ports.TurnEngine {
	return &instrumentedEngine{next: next, collector: c}
}

// Turn implements ports.TurnEngine.
func (e *instrumentedEngine) Turn(ctx context.Context, sessionID string, input string) (*domain.TurnReport, error) {
	report, err := e.next.Turn(ctx, sessionID, input)
	if report != nil {
		e.collector.RecordTurn(report.Status)
	}
	return report, err
}
