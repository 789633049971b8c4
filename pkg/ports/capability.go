package ports

import "context"

// Capability is an external side-effect a capability-bound worker can
// invoke during its think/act loop: a search API, a messaging gateway, a
// forecast lookup. The instruction is free text (typically a small JSON
// document the worker's persona teaches the oracle to emit); the result
// is a human-readable string fed back into the worker's loop.
//
// Implementations translate network/auth/rate-limit failures into
// *domain.CapabilityError. Workers recover those locally into descriptive
// digests; raw faults never cross the team boundary.
type Capability interface {
	Invoke(ctx context.Context, instruction string) (string, error)
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, instruction string) (string, error)

// Invoke implements Capability.
func (f CapabilityFunc) Invoke(ctx context.Context, instruction string) (string, error) {
	return f(ctx, instruction)
}
