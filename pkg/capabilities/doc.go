/*
Package capabilities provides the built-in external actions of the travel
agency: flight and hotel search (SerpApi), weather forecasts
(OpenWeatherMap), web search (Tavily) and WhatsApp delivery.

Each capability implements ports.Capability over a single HTTP API.
Instructions arrive as JSON produced by the worker's think/act loop;
where a capability has one natural free-text argument, plain text is
accepted too. Failures surface as domain.CapabilityError so workers can
recover them into descriptive digests instead of crashing the turn.
*/
package capabilities
