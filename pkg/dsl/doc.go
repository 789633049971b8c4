/*
Package dsl provides a fluent Go builder for composing Convoy team
hierarchies programmatically.

It is an alternative to external YAML configuration: teams, nested
sub-teams and capability workers are declared with chained, type-checked
calls, which is convenient for dynamic composition, unit tests and IDE
assistance.

Example usage:

	agency := dsl.Team("trip_agency").
		Persona("You coordinate a small travel agency based in Paris.").
		MaxSteps(30)

	agency.Capability("flight_finder", flights).
		Describe("Finds flight options between two cities.").
		Persona("You search flights and summarize the best options.").
		Tool("search_flights", "Searches live flight listings.")

	research := agency.Subteam("research_team").
		Describe("Researches destinations, weather and activities.")
	research.Capability("search", websearch).
		Describe("Searches the web.")

	def := agency.Build()
	// def is a convoy.TeamDef, ready for convoy.New(def, oracle).
*/
package dsl
