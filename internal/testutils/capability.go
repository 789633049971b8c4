package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/convoy/pkg/domain"
)

// FixedCapability returns the same result for every invocation and
// records what it was asked.
type FixedCapability struct {
	Result string

	mu     sync.Mutex
	inputs []string
}

// Invoke implements ports.Capability.
func (c *FixedCapability) Invoke(ctx context.Context, instruction string) (string, error) {
	c.mu.Lock()
	c.inputs = append(c.inputs, instruction)
	c.mu.Unlock()
	return c.Result, nil
}

// Inputs returns the recorded instructions.
func (c *FixedCapability) Inputs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.inputs))
	copy(out, c.inputs)
	return out
}

// FailingCapability always fails with a CapabilityError.
type FailingCapability struct {
	Name   string
	Reason error
}

// Invoke implements ports.Capability.
func (c *FailingCapability) Invoke(ctx context.Context, instruction string) (string, error) {
	return "", &domain.CapabilityError{Capability: c.Name, Err: c.Reason}
}
