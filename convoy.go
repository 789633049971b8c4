package convoy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/convoy/internal/engine"
	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// Version is the release identifier, overridable at build time via ldflags.
var Version = "0.1.0"

// WorkerDef declares one worker of a team. Exactly one of Capability or
// Team must be set; the two kinds share the same execution contract.
type WorkerDef struct {
	// Name is the externally visible worker name the supervisor routes
	// to and digests are attributed to.
	Name string

	// Description tells the supervisor's oracle what this worker can do.
	Description string

	// Persona is the system preamble of a capability-bound worker's
	// think/act loop. Ignored for team-bound workers.
	Persona string

	// Capability binds the worker to one external side-effect.
	Capability ports.Capability

	// CapabilityName and CapabilityDescription form the single-entry
	// roster of the worker's think/act loop. CapabilityName defaults to
	// the worker name.
	CapabilityName        string
	CapabilityDescription string

	// MaxCalls caps the think/act iterations per instruction.
	MaxCalls int

	// Team makes this worker a whole nested team.
	Team *TeamDef
}

// TeamDef declares one team: a supervisor persona plus its worker set.
type TeamDef struct {
	// Name identifies the team in logs, events and errors.
	Name string

	// Persona is the supervisor's system preamble.
	Persona string

	// Workers is the ordered roster. Order matters: it is part of the
	// prompt the oracle sees.
	Workers []WorkerDef

	// MaxSteps bounds node transitions per invocation of this team
	// (default engine.DefaultMaxSteps).
	MaxSteps int
}

// Agency is the compiled root team hierarchy, ready to be driven turn by
// turn. It is the high-level entry point of the Convoy library.
type Agency struct {
	root   *engine.Team
	def    TeamDef
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures an Agency.
type Option func(*Agency)

// WithLogger sets the structured logger used across all teams.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agency) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks on every team and
// worker in the hierarchy.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agency) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// New compiles a team definition against a decision oracle.
func New(def TeamDef, oracle ports.Oracle, opts ...Option) (*Agency, error) {
	if oracle == nil {
		return nil, fmt.Errorf("convoy: oracle is required")
	}
	if def.Name == "" {
		return nil, fmt.Errorf("convoy: team name is required")
	}

	a := &Agency{
		def:    def,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	root, err := a.buildTeam(def, oracle)
	if err != nil {
		return nil, err
	}
	a.root = root
	return a, nil
}

func (a *Agency) buildTeam(def TeamDef, oracle ports.Oracle) (*engine.Team, error) {
	if len(def.Workers) == 0 {
		return nil, fmt.Errorf("convoy: team %s declares no workers", def.Name)
	}

	team := engine.NewTeam(def.Name, def.Persona, oracle,
		engine.WithMaxSteps(def.MaxSteps),
		engine.WithHooks(a.hooks),
		engine.WithLogger(a.logger),
	)

	for _, wd := range def.Workers {
		worker, err := a.buildWorker(def.Name, wd, oracle)
		if err != nil {
			return nil, err
		}
		member := domain.Member{Name: wd.Name, Description: wd.Description}
		if err := team.AddWorker(member, worker); err != nil {
			return nil, err
		}
	}
	return team, nil
}

func (a *Agency) buildWorker(teamName string, wd WorkerDef, oracle ports.Oracle) (engine.Worker, error) {
	switch {
	case wd.Capability != nil && wd.Team != nil:
		return nil, fmt.Errorf("convoy: worker %s/%s binds both a capability and a team", teamName, wd.Name)

	case wd.Capability != nil:
		return engine.NewCapabilityWorker(engine.CapabilityWorkerConfig{
			Name:                  wd.Name,
			Team:                  teamName,
			Persona:               wd.Persona,
			Oracle:                oracle,
			Capability:            wd.Capability,
			CapabilityName:        wd.CapabilityName,
			CapabilityDescription: wd.CapabilityDescription,
			MaxCalls:              wd.MaxCalls,
			Hooks:                 a.hooks,
			Logger:                a.logger,
		})

	case wd.Team != nil:
		sub, err := a.buildTeam(*wd.Team, oracle)
		if err != nil {
			return nil, err
		}
		return engine.NewTeamWorker(wd.Name, sub)

	default:
		return nil, fmt.Errorf("convoy: worker %s/%s binds neither a capability nor a team", teamName, wd.Name)
	}
}

// Name returns the root team's name.
func (a *Agency) Name() string { return a.def.Name }

// Definition returns the team definition the agency was compiled from.
// Hosts use it for introspection and graph rendering.
func (a *Agency) Definition() TeamDef { return a.def }

// Roster returns the root team's worker registry.
func (a *Agency) Roster() domain.Roster { return a.root.Roster() }

// MaxSteps returns the root team's transition ceiling per invocation.
func (a *Agency) MaxSteps() int { return a.root.MaxSteps() }

// Start seeds a root conversation state from persisted history plus the
// new input.
func (a *Agency) Start(history []domain.Message, input string) *domain.State {
	state := domain.NewState(history...)
	state.Append(domain.UserMessage("user", input))
	return state
}

// Step executes exactly one root-team transition. Drivers call it in a
// loop to surface partial updates between steps; cancellation is honored
// only at these boundaries.
func (a *Agency) Step(ctx context.Context, state *domain.State) (*domain.State, bool, error) {
	return a.root.Step(ctx, state)
}

// Run drives the root team to END under its ceiling. Prefer Step when
// progressive observability or driver-level retry is needed.
func (a *Agency) Run(ctx context.Context, state *domain.State) (*domain.State, error) {
	return a.root.Run(ctx, state)
}
