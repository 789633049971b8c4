package dsl

import (
	convoy "github.com/aretw0/convoy"
	"github.com/aretw0/convoy/pkg/ports"
)

// TeamBuilder accumulates one team definition. Obtain one with Team or
// TeamBuilder.Subteam.
type TeamBuilder struct {
	def         convoy.TeamDef
	description string
	workers     []*WorkerBuilder
}

// Team starts a new team definition.
func Team(name string) *TeamBuilder {
	return &TeamBuilder{def: convoy.TeamDef{Name: name}}
}

// Persona sets the supervisor's system preamble.
func (t *TeamBuilder) Persona(persona string) *TeamBuilder {
	t.def.Persona = persona
	return t
}

// MaxSteps bounds node transitions per invocation of this team.
func (t *TeamBuilder) MaxSteps(n int) *TeamBuilder {
	t.def.MaxSteps = n
	return t
}

// Capability adds a capability-bound worker and returns its builder for
// further configuration.
func (t *TeamBuilder) Capability(name string, cap ports.Capability) *WorkerBuilder {
	wb := &WorkerBuilder{def: convoy.WorkerDef{Name: name, Capability: cap}}
	t.workers = append(t.workers, wb)
	return wb
}

// Subteam adds a team-bound worker backed by a fresh nested team of the
// same name, and returns that team's builder. Use Describe on the
// returned builder to set what the parent supervisor sees.
func (t *TeamBuilder) Subteam(name string) *TeamBuilder {
	sub := Team(name)
	t.workers = append(t.workers, &WorkerBuilder{
		def: convoy.WorkerDef{Name: name},
		sub: sub,
	})
	return sub
}

// Describe sets the roster description of this team when it is mounted
// as a worker of a parent team. No effect on a root team.
func (t *TeamBuilder) Describe(description string) *TeamBuilder {
	t.description = description
	return t
}

// Build materializes the accumulated definition.
func (t *TeamBuilder) Build() convoy.TeamDef {
	def := t.def
	def.Workers = make([]convoy.WorkerDef, 0, len(t.workers))
	for _, wb := range t.workers {
		wd := wb.def
		if wb.sub != nil {
			subDef := wb.sub.Build()
			wd.Team = &subDef
			if wd.Description == "" {
				wd.Description = wb.sub.description
			}
		}
		def.Workers = append(def.Workers, wd)
	}
	return def
}

// Compile builds the definition and hands it to convoy.New.
func (t *TeamBuilder) Compile(oracle ports.Oracle, opts ...convoy.Option) (*convoy.Agency, error) {
	return convoy.New(t.Build(), oracle, opts...)
}
