package dsl

import convoy "github.com/aretw0/convoy"

// WorkerBuilder provides a fluent API for configuring one worker.
type WorkerBuilder struct {
	def convoy.WorkerDef
	sub *TeamBuilder
}

// Describe sets what the supervisor's oracle is told this worker can do.
func (w *WorkerBuilder) Describe(description string) *WorkerBuilder {
	w.def.Description = description
	return w
}

// Persona sets the system preamble of the worker's think/act loop.
func (w *WorkerBuilder) Persona(persona string) *WorkerBuilder {
	w.def.Persona = persona
	return w
}

// Tool names and describes the worker's capability as it appears in the
// think/act roster. Defaults to the worker name when unset.
func (w *WorkerBuilder) Tool(name, description string) *WorkerBuilder {
	w.def.CapabilityName = name
	w.def.CapabilityDescription = description
	return w
}

// MaxCalls caps think/act iterations per instruction.
func (w *WorkerBuilder) MaxCalls(n int) *WorkerBuilder {
	w.def.MaxCalls = n
	return w
}

// Build returns the underlying worker definition. Primarily used by
// TeamBuilder, exposed for advanced composition.
func (w *WorkerBuilder) Build() convoy.WorkerDef {
	if w.sub != nil {
		subDef := w.sub.Build()
		w.def.Team = &subDef
	}
	return w.def
}
