package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// DefaultMaxCalls bounds the think/act iterations of a capability-bound
// worker for one instruction.
const DefaultMaxCalls = 5

// CapabilityWorkerConfig configures a capability-bound worker.
type CapabilityWorkerConfig struct {
	// Name is the worker's externally visible name; digests are
	// attributed to it.
	Name string

	// Team is the owning team's name, used for event attribution.
	Team string

	// Persona is the system preamble of the worker's think/act loop.
	Persona string

	// Oracle drives the loop: each iteration it either instructs a
	// capability invocation or finishes with the summarizing answer.
	Oracle ports.Oracle

	// Capability is the single external side-effect this worker wraps.
	Capability ports.Capability

	// CapabilityName and CapabilityDescription form the one-entry roster
	// the oracle routes against. The description should document the
	// instruction format the capability expects.
	CapabilityName        string
	CapabilityDescription string

	// MaxCalls caps loop iterations (default DefaultMaxCalls). Reaching
	// the cap is not an abort: the worker digests what it observed.
	MaxCalls int

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// CapabilityWorker runs a bounded think/act loop over one capability:
// decide whether to call it, observe the result, decide whether to call
// again or respond.
type CapabilityWorker struct {
	cfg CapabilityWorkerConfig
}

// NewCapabilityWorker validates the config and builds the worker.
func NewCapabilityWorker(cfg CapabilityWorkerConfig) (*CapabilityWorker, error) {
	if cfg.Name == "" {
		return nil, errors.New("capability worker: name is required")
	}
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("capability worker %s: oracle is required", cfg.Name)
	}
	if cfg.Capability == nil {
		return nil, fmt.Errorf("capability worker %s: capability is required", cfg.Name)
	}
	if cfg.CapabilityName == "" {
		cfg.CapabilityName = cfg.Name
	}
	if cfg.MaxCalls <= 0 {
		cfg.MaxCalls = DefaultMaxCalls
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &CapabilityWorker{cfg: cfg}, nil
}

// Name returns the worker's externally visible name.
func (w *CapabilityWorker) Name() string { return w.cfg.Name }

// Execute implements Worker. Capability failures are recovered locally
// into a descriptive digest; oracle failures and schema violations
// propagate, since they mean the loop itself cannot proceed.
func (w *CapabilityWorker) Execute(ctx context.Context, instruction string) (domain.Message, error) {
	cfg := w.cfg
	roster := domain.NewRoster(domain.Member{
		Name:        cfg.CapabilityName,
		Description: cfg.CapabilityDescription,
	})
	history := []domain.Message{domain.UserMessage("user", instruction)}

	var lastObservation string
	for call := 0; call < cfg.MaxCalls; call++ {
		decision, err := cfg.Oracle.Decide(ctx, cfg.Persona, history, roster)
		if err != nil {
			return domain.Message{}, fmt.Errorf("worker %s: %w", cfg.Name, err)
		}
		if err := decision.Validate(cfg.Name, roster); err != nil {
			return domain.Message{}, err
		}

		if decision.Finished() {
			content := strings.TrimSpace(decision.Answer)
			if content == "" {
				content = lastObservation
			}
			if content == "" {
				content = fmt.Sprintf("I have no result for: %s", instruction)
			}
			return domain.UserMessage(cfg.Name, content), nil
		}

		w.emitCall(ctx, decision.Instructions)
		result, err := cfg.Capability.Invoke(ctx, decision.Instructions)
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation is not a capability fault; let the step abort.
				return domain.Message{}, ctx.Err()
			}
			w.emitReturn(ctx, decision.Instructions, err.Error(), true)
			cfg.Logger.Warn("capability invocation failed",
				"worker", cfg.Name,
				"capability", cfg.CapabilityName,
				"err", err,
			)
			return domain.UserMessage(cfg.Name, w.describeFailure(err)), nil
		}

		w.emitReturn(ctx, decision.Instructions, result, false)
		lastObservation = result
		history = append(history, domain.UserMessage(cfg.CapabilityName, result))
	}

	// Loop ceiling reached: digest what we observed rather than abort.
	if lastObservation != "" {
		return domain.UserMessage(cfg.Name, lastObservation), nil
	}
	return domain.UserMessage(cfg.Name,
		fmt.Sprintf("I stopped after %d attempts without a usable result for: %s", cfg.MaxCalls, instruction)), nil
}

// describeFailure turns a capability fault into the human-readable digest
// required at the team boundary.
func (w *CapabilityWorker) describeFailure(err error) string {
	var capErr *domain.CapabilityError
	if errors.As(err, &capErr) {
		return fmt.Sprintf("I could not complete this step: the %s service reported a problem (%v). Please try again later.",
			capErr.Capability, capErr.Err)
	}
	return fmt.Sprintf("I could not complete this step: %s is currently unavailable.", w.cfg.CapabilityName)
}

func (w *CapabilityWorker) emitCall(ctx context.Context, input string) {
	if w.cfg.Hooks.OnCapabilityCall != nil {
		w.cfg.Hooks.OnCapabilityCall(ctx, &domain.CapabilityEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventCapabilityCall, Team: w.cfg.Team},
			Worker:     w.cfg.Name,
			Capability: w.cfg.CapabilityName,
			Input:      input,
		})
	}
}

func (w *CapabilityWorker) emitReturn(ctx context.Context, input, output string, isErr bool) {
	if w.cfg.Hooks.OnCapabilityReturn != nil {
		w.cfg.Hooks.OnCapabilityReturn(ctx, &domain.CapabilityEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventCapabilityReturn, Team: w.cfg.Team},
			Worker:     w.cfg.Name,
			Capability: w.cfg.CapabilityName,
			Input:      input,
			Output:     output,
			IsError:    isErr,
		})
	}
}
