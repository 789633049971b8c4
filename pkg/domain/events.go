package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDecision         EventType = "decision"
	EventWorkerStart      EventType = "worker_start"
	EventWorkerReturn     EventType = "worker_return"
	EventCapabilityCall   EventType = "capability_call"
	EventCapabilityReturn EventType = "capability_return"
	EventTeamFinish       EventType = "team_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Team      string    `json:"team"`
}

// DecisionEvent records a supervisor routing decision after validation.
type DecisionEvent struct {
	EventBase
	Decision Decision `json:"decision"`
}

// WorkerEvent records a worker dispatch or its returned digest.
type WorkerEvent struct {
	EventBase
	Worker      string   `json:"worker"`
	Instruction string   `json:"instruction,omitempty"`
	Digest      *Message `json:"digest,omitempty"`
}

// CapabilityEvent records an external capability invocation inside a
// capability-bound worker's think/act loop.
type CapabilityEvent struct {
	EventBase
	Worker     string `json:"worker"`
	Capability string `json:"capability"`
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Hooks run on
// the engine goroutine; implementations must not block.
type LifecycleHooks struct {
	OnDecision         func(context.Context, *DecisionEvent)
	OnWorkerStart      func(context.Context, *WorkerEvent)
	OnWorkerReturn     func(context.Context, *WorkerEvent)
	OnCapabilityCall   func(context.Context, *CapabilityEvent)
	OnCapabilityReturn func(context.Context, *CapabilityEvent)
	OnTeamFinish       func(context.Context, *EventBase)
}

// Merge combines two hook sets; both callbacks fire, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDecision:         mergeHook(h.OnDecision, other.OnDecision),
		OnWorkerStart:      mergeHook(h.OnWorkerStart, other.OnWorkerStart),
		OnWorkerReturn:     mergeHook(h.OnWorkerReturn, other.OnWorkerReturn),
		OnCapabilityCall:   mergeHook(h.OnCapabilityCall, other.OnCapabilityCall),
		OnCapabilityReturn: mergeHook(h.OnCapabilityReturn, other.OnCapabilityReturn),
		OnTeamFinish:       mergeHook(h.OnTeamFinish, other.OnTeamFinish),
	}
}

func mergeHook[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev E) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
