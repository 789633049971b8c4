package engine

import (
	"context"
	"fmt"

	"github.com/aretw0/convoy/pkg/domain"
)

// TeamWorker makes a whole nested Team act as a single worker of its
// parent. The parent's instruction seeds a brand-new child state; the
// child runs to its own END under its own ceiling; its final message is
// re-attributed under the worker's name and becomes the one digest that
// crosses the boundary. The child's internal deliberation is discarded,
// which bounds context growth as nesting depth increases.
type TeamWorker struct {
	name string
	team *Team
}

// NewTeamWorker binds a nested team under an externally visible name.
func NewTeamWorker(name string, team *Team) (*TeamWorker, error) {
	if name == "" {
		return nil, fmt.Errorf("team worker: name is required")
	}
	if team == nil {
		return nil, fmt.Errorf("team worker %s: team is required", name)
	}
	return &TeamWorker{name: name, team: team}, nil
}

// Name returns the worker's externally visible name.
func (w *TeamWorker) Name() string { return w.name }

// Team returns the nested team.
func (w *TeamWorker) Team() *Team { return w.team }

// Execute implements Worker. Child failures (schema violations, ceiling
// breaches, oracle faults) propagate to the parent; they are fatal to the
// delegation, not silently absorbed.
func (w *TeamWorker) Execute(ctx context.Context, instruction string) (domain.Message, error) {
	child := domain.NewState(domain.UserMessage(w.name, instruction))

	final, err := w.team.Run(ctx, child)
	if err != nil {
		return domain.Message{}, fmt.Errorf("subteam %s: %w", w.team.Name(), err)
	}

	last := final.LastMessage()
	return domain.UserMessage(w.name, last.Content), nil
}
