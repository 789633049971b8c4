package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	convoy "github.com/aretw0/convoy"
	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/session"
)

// DefaultMaxRetries bounds how often a single transition is retried when
// the oracle is unreachable.
const DefaultMaxRetries = 3

// DefaultBackoff is the base delay between oracle retries; the delay
// doubles per attempt.
const DefaultBackoff = 500 * time.Millisecond

// Runner drives complete turns against an Agency. It implements
// ports.TurnEngine.
type Runner struct {
	agency   *convoy.Agency
	sessions *session.Manager

	handler    IOHandler
	logger     *slog.Logger
	maxRetries int
	backoff    time.Duration
}

// NewRunner creates a turn driver over the given agency and session
// manager.
func NewRunner(agency *convoy.Agency, sessions *session.Manager, opts ...Option) *Runner {
	r := &Runner{
		agency:     agency,
		sessions:   sessions,
		handler:    nopHandler{},
		logger:     logging.NewNop(),
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Turn drives one external input through the root team: load the log,
// append the input, step to END or abort, persist, report.
//
// Fatal errors (schema violations, oracle exhaustion, cancellation)
// still persist the progress committed before the failure, alongside a
// failure notice, and return the error with a TurnAborted report. A
// breached transition ceiling is reported as TurnAborted without an
// error: the notice in the log is the outcome.
func (r *Runner) Turn(ctx context.Context, sessionID string, input string) (*domain.TurnReport, error) {
	var report *domain.TurnReport
	err := r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		report, err = r.turn(ctx, sessionID, input)
		return err
	})
	return report, err
}

func (r *Runner) turn(ctx context.Context, sessionID string, input string) (*domain.TurnReport, error) {
	store := r.sessions.Store()

	log, err := store.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	state := r.agency.Start(log, input)
	base := len(log)
	emitted := base

	report := &domain.TurnReport{SessionID: sessionID, Status: domain.TurnCompleted}

	if err := r.emitNew(ctx, state, &emitted); err != nil {
		return nil, err
	}

	maxSteps := r.agency.MaxSteps()
	var turnErr error

	for !state.Terminated() {
		if report.Steps >= maxSteps {
			recursion := &domain.RecursionError{Team: r.agency.Name(), Limit: maxSteps}
			r.abort(ctx, state, recursion)
			report.Status = domain.TurnAborted
			break
		}
		report.Steps++

		next, done, err := r.stepWithRetry(ctx, state)
		if err != nil {
			r.abort(ctx, state, err)
			report.Status = domain.TurnAborted
			turnErr = err
			break
		}

		state = next
		if err := r.emitNew(ctx, state, &emitted); err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	report.NewMessages = state.Messages[base:]
	report.Log = state.Messages

	// Persist whatever was committed, aborted turns included. Use a
	// fresh context so cancellation mid-turn cannot lose progress.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := store.Save(saveCtx, sessionID, state.Messages); err != nil {
		return report, fmt.Errorf("failed to persist session %s: %w", sessionID, err)
	}

	r.logger.Debug("turn finished",
		"session_id", sessionID,
		"status", report.Status,
		"steps", report.Steps,
	)
	return report, turnErr
}

// stepWithRetry performs one root transition, retrying transient oracle
// outages with doubling backoff. All other errors pass through.
func (r *Runner) stepWithRetry(ctx context.Context, state *domain.State) (*domain.State, bool, error) {
	delay := r.backoff
	for attempt := 0; ; attempt++ {
		next, done, err := r.agency.Step(ctx, state)
		if err == nil {
			return next, done, nil
		}
		if !errors.Is(err, domain.ErrOracleUnavailable) || attempt >= r.maxRetries {
			return nil, false, err
		}

		notice := fmt.Sprintf("oracle unavailable, retrying in %s (attempt %d/%d)", delay, attempt+1, r.maxRetries)
		r.logger.Warn("oracle retry", "delay", delay, "attempt", attempt+1, "err", err)
		if err := r.handler.OnNotice(ctx, notice); err != nil {
			return nil, false, err
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// abort appends a failure notice to the committed state and tells the
// handler. The state already holds all progress from committed steps.
func (r *Runner) abort(ctx context.Context, state *domain.State, cause error) {
	notice := failureNotice(cause)
	state.Append(domain.SystemMessage(notice))
	state.Next = domain.NodeEnd

	r.logger.Error("turn aborted", "err", cause)
	if err := r.handler.OnNotice(ctx, notice); err != nil {
		r.logger.Warn("failed to deliver abort notice", "err", err)
	}
}

// emitNew streams messages committed since the last emission.
func (r *Runner) emitNew(ctx context.Context, state *domain.State, emitted *int) error {
	for ; *emitted < len(state.Messages); *emitted++ {
		if err := r.handler.OnMessage(ctx, state.Messages[*emitted]); err != nil {
			return err
		}
	}
	return nil
}

// failureNotice renders an abort cause as a log-worthy explanation.
func failureNotice(cause error) string {
	var recursion *domain.RecursionError
	var schema *domain.SchemaViolationError

	switch {
	case errors.As(cause, &recursion):
		return fmt.Sprintf("The conversation was stopped after reaching the %d-step limit for team %s. Partial progress above is preserved; please rephrase or narrow the request.", recursion.Limit, recursion.Team)
	case errors.As(cause, &schema):
		return fmt.Sprintf("The conversation was stopped because the coordinator produced an invalid route (%s). Partial progress above is preserved.", schema.Error())
	case errors.Is(cause, domain.ErrOracleUnavailable):
		return "The conversation was stopped because the decision service stayed unreachable after several retries. Partial progress above is preserved; please try again later."
	case errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return "The conversation was interrupted before completing. Partial progress above is preserved."
	default:
		return fmt.Sprintf("The conversation was stopped by an unexpected error: %v. Partial progress above is preserved.", cause)
	}
}
