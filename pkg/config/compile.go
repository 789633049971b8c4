package config

import (
	"fmt"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/pkg/registry"
)

// Compile resolves the agency definition into a TeamDef, binding each
// worker's capability name against the registry.
func (c *Config) Compile(reg *registry.Registry) (convoy.TeamDef, error) {
	return compileTeam(&c.Agency, reg)
}

func compileTeam(team *TeamConfig, reg *registry.Registry) (convoy.TeamDef, error) {
	def := convoy.TeamDef{
		Name:     team.Name,
		Persona:  team.Persona,
		MaxSteps: team.MaxSteps,
		Workers:  make([]convoy.WorkerDef, 0, len(team.Workers)),
	}

	for i := range team.Workers {
		w := &team.Workers[i]
		wd := convoy.WorkerDef{
			Name:        w.Name,
			Description: w.Description,
			Persona:     w.Persona,
			MaxCalls:    w.MaxCalls,
		}

		switch {
		case w.Team != nil:
			sub, err := compileTeam(w.Team, reg)
			if err != nil {
				return convoy.TeamDef{}, err
			}
			wd.Team = &sub

		default:
			cap, err := reg.Lookup(w.Capability)
			if err != nil {
				return convoy.TeamDef{}, fmt.Errorf("config: worker %s/%s: %w", team.Name, w.Name, err)
			}
			wd.Capability = cap
			wd.CapabilityName = w.Capability
			wd.CapabilityDescription = w.CapabilityDescription
		}

		def.Workers = append(def.Workers, wd)
	}
	return def, nil
}
