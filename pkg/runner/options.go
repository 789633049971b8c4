package runner

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures how turn progress reaches the user.
func WithHandler(handler IOHandler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.handler = handler
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRetry tunes oracle outage handling: maxRetries bounds attempts per
// transition, backoff is the base delay and doubles per attempt.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(r *Runner) {
		if maxRetries >= 0 {
			r.maxRetries = maxRetries
		}
		if backoff > 0 {
			r.backoff = backoff
		}
	}
}
