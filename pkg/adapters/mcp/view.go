package mcp

import "github.com/aretw0/convoy"

type teamView struct {
	Name     string       `json:"name"`
	MaxSteps int          `json:"max_steps,omitempty"`
	Workers  []workerView `json:"workers"`
}

type workerView struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capability  string    `json:"capability,omitempty"`
	Team        *teamView `json:"team,omitempty"`
}

func viewTeam(def convoy.TeamDef) teamView {
	tv := teamView{
		Name:     def.Name,
		MaxSteps: def.MaxSteps,
		Workers:  make([]workerView, 0, len(def.Workers)),
	}
	for _, wd := range def.Workers {
		wv := workerView{
			Name:        wd.Name,
			Description: wd.Description,
			Capability:  wd.CapabilityName,
		}
		if wd.Team != nil {
			sub := viewTeam(*wd.Team)
			wv.Team = &sub
		}
		tv.Workers = append(tv.Workers, wv)
	}
	return tv
}
