// Package testutils provides deterministic oracles and capabilities for
// engine and driver tests.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/convoy/pkg/domain"
)

// ScriptedOracle replays a fixed sequence of decisions, one per Decide
// call, regardless of history. It fails the scenario loudly when the
// script runs dry instead of inventing a route.
type ScriptedOracle struct {
	mu        sync.Mutex
	decisions []domain.Decision
	calls     int
}

// NewScriptedOracle builds an oracle that replays the given decisions.
func NewScriptedOracle(decisions ...domain.Decision) *ScriptedOracle {
	return &ScriptedOracle{decisions: decisions}
}

// Decide implements ports.Oracle.
func (o *ScriptedOracle) Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.calls >= len(o.decisions) {
		return domain.Decision{}, fmt.Errorf("scripted oracle: out of decisions after %d calls", o.calls)
	}
	d := o.decisions[o.calls]
	o.calls++
	return d, nil
}

// Calls returns how many decisions were consumed.
func (o *ScriptedOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// LoopingOracle returns the same decision on every call. Used to provoke
// step-ceiling breaches.
type LoopingOracle struct {
	Decision domain.Decision
	calls    int
	mu       sync.Mutex
}

// Decide implements ports.Oracle.
func (o *LoopingOracle) Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	return o.Decision, nil
}

// Calls returns how many times the oracle was consulted.
func (o *LoopingOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// FlakyOracle fails with the wrapped error a fixed number of times before
// delegating to the inner oracle. Used to exercise driver-level retry.
type FlakyOracle struct {
	Inner interface {
		Decide(context.Context, string, []domain.Message, domain.Roster) (domain.Decision, error)
	}
	Failures int
	Err      error

	mu       sync.Mutex
	attempts int
}

// Decide implements ports.Oracle.
func (o *FlakyOracle) Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error) {
	o.mu.Lock()
	o.attempts++
	failing := o.attempts <= o.Failures
	o.mu.Unlock()

	if failing {
		return domain.Decision{}, fmt.Errorf("flaky oracle: %w", o.Err)
	}
	return o.Inner.Decide(ctx, preamble, history, roster)
}

// Attempts returns the total number of Decide calls, including failures.
func (o *FlakyOracle) Attempts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts
}
