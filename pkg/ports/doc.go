/*
Package ports defines the interfaces (ports) of the Convoy engine,
following Hexagonal Architecture.

Driven ports (implemented by adapters, consumed by the core):

  - Oracle: the decision backend a supervisor consults for routing.
  - Capability: an external side-effect a capability-bound worker invokes.
  - SessionStore: the persisted, ordered message log keyed by session ID.
  - DistributedLocker: cross-replica session coordination.

Driving ports (implemented by the core, consumed by hosts):

  - TurnEngine: one external input in, one completed (or aborted) turn out.
*/
package ports
