/*
Package runner drives complete conversation turns against an Agency.

It is the bridge between the routing engine and the outside world: it
loads the session log, seeds the turn, steps the root team under its
transition ceiling, streams committed messages to a pluggable IOHandler,
retries transient oracle outages with bounded backoff, and persists the
log at turn end. Aborted turns keep their partial progress and carry a
human-readable failure notice in the log.

# Key Components

  - Runner: the turn driver, implementing ports.TurnEngine.
  - IOHandler: decouples how progress reaches the user (text, JSON).
  - SignalManager: maps SIGINT/SIGTERM onto context cancellation for
    interactive hosts.

# Usage

	r := runner.NewRunner(agency, sessions,
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
	)

	report, err := r.Turn(ctx, "user-1", "Find me a flight to Austin")
*/
package runner
