package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// DefaultMaxSteps bounds the node transitions of one team invocation.
// Exceeding it is a hard abort (RecursionError), never silent truncation.
const DefaultMaxSteps = 20

// Worker is the single contract both worker kinds implement: execute one
// instruction, return one digest message. After the digest, control
// unconditionally returns to the worker's supervisor; a worker never ends
// its team.
type Worker interface {
	Execute(ctx context.Context, instruction string) (domain.Message, error)
}

// Team is the star-topology state machine binding one supervisor to its
// worker set. The roster is immutable once the team starts running.
type Team struct {
	name     string
	preamble string
	oracle   ports.Oracle
	roster   []domain.Member
	workers  map[string]Worker
	maxSteps int
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// TeamOption configures a Team.
type TeamOption func(*Team)

// WithMaxSteps sets the transition ceiling for one invocation.
func WithMaxSteps(n int) TeamOption {
	return func(t *Team) {
		if n > 0 {
			t.maxSteps = n
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) TeamOption {
	return func(t *Team) {
		t.hooks = t.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TeamOption {
	return func(t *Team) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTeam creates a team with an empty roster.
func NewTeam(name, preamble string, oracle ports.Oracle, opts ...TeamOption) *Team {
	t := &Team{
		name:     name,
		preamble: preamble,
		oracle:   oracle,
		workers:  make(map[string]Worker),
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddWorker declares a roster member and binds its implementation.
func (t *Team) AddWorker(member domain.Member, w Worker) error {
	if member.Name == "" {
		return fmt.Errorf("team %s: worker name is required", t.name)
	}
	if member.Name == domain.NodeSupervisor || member.Name == domain.Finish {
		return fmt.Errorf("team %s: %q is a reserved node name", t.name, member.Name)
	}
	if _, exists := t.workers[member.Name]; exists {
		return fmt.Errorf("team %s: duplicate worker %q", t.name, member.Name)
	}
	t.workers[member.Name] = w
	t.roster = append(t.roster, member)
	return nil
}

// Name returns the team name.
func (t *Team) Name() string { return t.name }

// Roster returns the declared worker registry.
func (t *Team) Roster() domain.Roster { return domain.NewRoster(t.roster...) }

// MaxSteps returns the transition ceiling of one invocation.
func (t *Team) MaxSteps() int { return t.maxSteps }

// Step executes exactly one node transition and returns the resulting
// state snapshot. The input state is never mutated; on error the caller
// keeps the last committed snapshot. done is true once the team reached
// END for this invocation.
func (t *Team) Step(ctx context.Context, state *domain.State) (next *domain.State, done bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	switch state.Next {
	case "", domain.NodeSupervisor:
		return t.supervise(ctx, state)
	case domain.NodeEnd:
		return state, true, nil
	default:
		next, err := t.dispatch(ctx, state)
		return next, false, err
	}
}

// Run drives the team from its current state to END, bounded by the step
// ceiling. On error the last committed state is returned alongside so
// partial progress is preserved.
func (t *Team) Run(ctx context.Context, state *domain.State) (*domain.State, error) {
	steps := 0
	for !state.Terminated() {
		if steps >= t.maxSteps {
			return state, &domain.RecursionError{Team: t.name, Limit: t.maxSteps}
		}
		steps++

		next, done, err := t.Step(ctx, state)
		if err != nil {
			return state, err
		}
		state = next
		if done {
			break
		}
	}
	return state, nil
}

// supervise asks the oracle for a routing decision and applies it.
func (t *Team) supervise(ctx context.Context, state *domain.State) (*domain.State, bool, error) {
	decision, err := t.oracle.Decide(ctx, t.preamble, state.Messages, t.Roster())
	if err != nil {
		return nil, false, fmt.Errorf("team %s: %w", t.name, err)
	}

	// Reject out-of-roster targets before touching state.
	if err := decision.Validate(t.name, t.Roster()); err != nil {
		return nil, false, err
	}

	t.emitDecision(ctx, decision)
	t.logger.Debug("supervisor decision",
		"team", t.name,
		"next", decision.Next,
		"instructions", decision.Instructions,
	)

	next := state.Clone()
	next.Instructions = decision.Instructions
	if answer := strings.TrimSpace(decision.Answer); answer != "" {
		next.Append(domain.Message{Role: domain.RoleAssistant, Name: domain.NodeSupervisor, Content: answer})
	}

	if decision.Finished() {
		next.Next = domain.NodeEnd
		t.emitFinish(ctx)
		return next, true, nil
	}

	next.Next = decision.Next
	return next, false, nil
}

// dispatch hands the pending instruction to the routed worker and commits
// its digest. The worker target is guaranteed valid here: it passed
// roster validation when the decision was applied.
func (t *Team) dispatch(ctx context.Context, state *domain.State) (*domain.State, error) {
	worker, ok := t.workers[state.Next]
	if !ok {
		// Unreachable unless state was forged outside the engine.
		return nil, &domain.SchemaViolationError{Team: t.name, Next: state.Next, Members: t.Roster().Names()}
	}

	instruction := strings.TrimSpace(state.Instructions)
	if instruction == "" {
		// Documented delegation fallback: an instruction-less route seeds
		// the worker with the most recent user-originated message.
		if msg, ok := state.LastUserMessage(); ok {
			instruction = msg.Content
		}
	}

	t.emitWorkerStart(ctx, state.Next, instruction)

	digest, err := worker.Execute(ctx, instruction)
	if err != nil {
		return nil, fmt.Errorf("team %s: worker %s: %w", t.name, state.Next, err)
	}

	next := state.Clone()
	next.Append(digest)
	next.Next = domain.NodeSupervisor
	next.Instructions = ""

	t.emitWorkerReturn(ctx, state.Next, digest)
	return next, nil
}

func (t *Team) base(typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: typ, Team: t.name}
}

func (t *Team) emitDecision(ctx context.Context, d domain.Decision) {
	if t.hooks.OnDecision != nil {
		t.hooks.OnDecision(ctx, &domain.DecisionEvent{EventBase: t.base(domain.EventDecision), Decision: d})
	}
}

func (t *Team) emitWorkerStart(ctx context.Context, worker, instruction string) {
	if t.hooks.OnWorkerStart != nil {
		t.hooks.OnWorkerStart(ctx, &domain.WorkerEvent{
			EventBase:   t.base(domain.EventWorkerStart),
			Worker:      worker,
			Instruction: instruction,
		})
	}
}

func (t *Team) emitWorkerReturn(ctx context.Context, worker string, digest domain.Message) {
	if t.hooks.OnWorkerReturn != nil {
		t.hooks.OnWorkerReturn(ctx, &domain.WorkerEvent{
			EventBase: t.base(domain.EventWorkerReturn),
			Worker:    worker,
			Digest:    &digest,
		})
	}
}

func (t *Team) emitFinish(ctx context.Context) {
	if t.hooks.OnTeamFinish != nil {
		base := t.base(domain.EventTeamFinish)
		t.hooks.OnTeamFinish(ctx, &base)
	}
}
