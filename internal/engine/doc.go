/*
Package engine implements the supervisor/worker routing state machine.

A Team binds one supervisor (backed by a decision oracle) to a static
roster of workers in a strict star topology:

	START -> supervisor -> worker_i -> supervisor -> ... -> END

The supervisor re-evaluates the full conversation log after every worker
completion; workers never invoke each other. Workers come in two kinds
behind one interface: capability-bound (a bounded think/act loop over one
external capability) and team-bound (a whole nested Team collapsed into a
single digest message).

The package is internal; hosts build teams through the convoy facade.
*/
package engine
