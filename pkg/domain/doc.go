/*
Package domain contains the core domain models for the Convoy engine.

It defines the fundamental entities of the routing state machine, such as
Messages, the Conversation State, Routing Decisions, and the worker Roster.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Message: One entry in a team's append-only conversation log.
  - State: The runtime snapshot of a team invocation (log, routing target,
    pending instructions).
  - Decision: The supervisor's routing verdict, validated against the Roster.
  - Roster: The immutable registry of workers a supervisor may route to.
*/
package domain
