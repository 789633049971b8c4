// Package agency provides the built-in travel agency definition: a root
// supervisor coordinating a research team, a flight planner and an
// accommodation agent. It is the roster the CLI runs when no agency file
// is given.
package agency

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/pkg/capabilities"
	"github.com/aretw0/convoy/pkg/ports"
	"github.com/aretw0/convoy/pkg/registry"
)

const (
	rootPersona = `You are a cool travel planner assistant. Answer only to the last message from the user, even if it's not related to travel planning. If the message is not clear or empty, you can ask for more information.
Today is %s, so only make research for after this date. And we're in Paris, France.`

	researchPersona = `You are in charge of the research team. You receive requests from your supervisor, the travel planner assistant. He may ask you to search for information like the weather or other things that you can find on the web.
For weather research:
- If the chosen dates are in the next seven days, use the weather capability. Otherwise, use web search.
- Make sure to use the right city name when you look for information. For example, the full name for Tenerife is 'Santa Cruz de Tenerife'.`

	flightPersona = `You're an agent specialized in flight research. Here are some rules to follow for flight research:
- When the user mentions a city, search all airports nearby. For example for 'Paris', use 'CDG,ORY,BVA' as the departure airports.
- If the user provides only one date, treat the request as a one-way trip.
- If the user provides two dates, treat the request as a round trip.
- If no information is given on the expected results, give only the best result with: departure airport, arrival airport, departure date and hour, flight duration, airline, price per person.`

	hotelPersona = `You're an agent specialized in accommodation research. Here are some rules to follow for hotel research:
- If no information is given on the expected results, give only the best result with: hotel name and number of stars, price per night, rating, address.`

	messengerPersona = `You're an agent specialized in communication. Here are some rules to follow:
- If the user provides a phone number, send the message to this number. Otherwise, send it to the default recipient.`
)

// Definition returns the travel agency team rooted at the planner
// supervisor. Personas embed today's date so the oracle plans forward.
// Capabilities resolve against reg at invocation time.
func Definition(today time.Time, reg *registry.Registry) convoy.TeamDef {
	date := today.Format("Monday, January 2, 2006")
	capability := func(name string) ports.Capability {
		return ports.CapabilityFunc(func(ctx context.Context, instruction string) (string, error) {
			return reg.Invoke(ctx, name, instruction)
		})
	}

	return convoy.TeamDef{
		Name:    "travel_agency",
		Persona: fmt.Sprintf(rootPersona, date),
		Workers: []convoy.WorkerDef{
			{
				Name:        "research_team",
				Description: "Can search on the web and give weather information",
				Team: &convoy.TeamDef{
					Name:    "research_team",
					Persona: researchPersona,
					Workers: []convoy.WorkerDef{
						{
							Name:                  "search",
							Description:           "Searches the web for up-to-date information",
							Capability:            capability("web_search"),
							CapabilityName:        "web_search",
							CapabilityDescription: "Searches the web; instruction is the query text",
						},
						{
							Name:                  "meteo",
							Description:           "Gives the weather forecast for the next seven days",
							Capability:            capability("weather_forecast"),
							CapabilityName:        "weather_forecast",
							CapabilityDescription: `Daily forecast; instruction is {"city_name", "country_code"?}`,
						},
					},
				},
			},
			{
				Name:                  "trip_planner",
				Description:           "Can give flight availabilities",
				Persona:               flightPersona,
				Capability:            capability("google_flights"),
				CapabilityName:        "google_flights",
				CapabilityDescription: `Flight search; instruction is {"departure_id", "arrival_id", "outbound_date", "return_date"?}`,
			},
			{
				Name:                  "accomodation_agent",
				Description:           "Can give accommodation availabilities like hotels",
				Persona:               hotelPersona,
				Capability:            capability("google_hotels"),
				CapabilityName:        "google_hotels",
				CapabilityDescription: `Hotel search; instruction is {"q", "check_in_date", "check_out_date"}`,
			},
			{
				Name:                  "communication_agent",
				Description:           "Can send WhatsApp messages to the user or their contacts",
				Persona:               messengerPersona,
				Capability:            capability("whatsapp"),
				CapabilityName:        "whatsapp",
				CapabilityDescription: `Sends a message; instruction is {"to"?, "message"}`,
			},
		},
	}
}

// Capabilities builds the registry backing the default roster, reading
// credentials from the environment. Capabilities with missing credentials
// are still registered; they fail with a descriptive error when invoked.
func Capabilities() *registry.Registry {
	reg := registry.New()

	serpKey := os.Getenv("SERPAPI_API_KEY")
	reg.Register("google_flights", capabilities.NewFlights(serpKey))
	reg.Register("google_hotels", capabilities.NewHotels(serpKey))
	reg.Register("weather_forecast", capabilities.NewWeather(os.Getenv("OPENWEATHERMAP_API_KEY")))
	reg.Register("web_search", capabilities.NewWebSearch(os.Getenv("TAVILY_API_KEY")))
	reg.Register("whatsapp", capabilities.NewWhatsApp(
		os.Getenv("WHATSAPP_TOKEN"),
		os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		capabilities.WithWhatsAppDefaultRecipient(os.Getenv("WHATSAPP_DEFAULT_RECIPIENT")),
	))

	return reg
}
