package convoy_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// scriptOracle returns pre-recorded decisions in order. Real programs use
// pkg/oracle/openai; a scripted oracle keeps the example deterministic.
type scriptOracle struct {
	decisions []domain.Decision
	calls     int
}

func (o *scriptOracle) Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error) {
	d := o.decisions[o.calls]
	o.calls++
	return d, nil
}

// ExampleNew demonstrates building a one-worker agency and driving a
// single conversation turn through it.
func ExampleNew() {
	timetable := ports.CapabilityFunc(func(ctx context.Context, instruction string) (string, error) {
		return "CDG -> LIS daily at 09:40, from 89 EUR", nil
	})

	oracle := &scriptOracle{decisions: []domain.Decision{
		// Root supervisor delegates to the worker.
		{Next: "timetable", Instructions: "flights Paris to Lisbon"},
		// The worker's own loop: call the capability, then summarize.
		{Next: "lookup", Instructions: "Paris to Lisbon"},
		{Next: domain.Finish, Answer: "CDG -> LIS daily at 09:40, from 89 EUR"},
		// Root supervisor finishes with the final answer.
		{Next: domain.Finish, Answer: "There is a daily 09:40 flight from CDG to LIS, from 89 EUR."},
	}}

	agency, err := convoy.New(convoy.TeamDef{
		Name:    "helpdesk",
		Persona: "You are a concise flight helpdesk.",
		Workers: []convoy.WorkerDef{
			{
				Name:           "timetable",
				Description:    "Knows the flight timetable",
				Capability:     timetable,
				CapabilityName: "lookup",
			},
		},
	}, oracle)
	if err != nil {
		log.Fatal(err)
	}

	state := agency.Start(nil, "Is there a morning flight from Paris to Lisbon?")
	state, err = agency.Run(context.Background(), state)
	if err != nil {
		log.Fatal(err)
	}

	last := state.Messages[len(state.Messages)-1]
	fmt.Println(last.Content)
	// Output: There is a daily 09:40 flight from CDG to LIS, from 89 EUR.
}
