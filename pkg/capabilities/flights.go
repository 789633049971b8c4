package capabilities

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const serpapiURL = "https://serpapi.com/search"

// FlightQuery is the instruction contract of the flight search
// capability.
type FlightQuery struct {
	// DepartureID and ArrivalID are airport codes, e.g. "CDG", "AUS".
	DepartureID string `json:"departure_id"`
	ArrivalID   string `json:"arrival_id"`

	// OutboundDate and ReturnDate use the YYYY-MM-DD format. An empty
	// return date makes the search one-way.
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date,omitempty"`

	// TravelClass: 1 economy, 2 premium economy, 3 business, 4 first.
	TravelClass int `json:"travel_class,omitempty"`

	Adults   int    `json:"adults,omitempty"`
	Children int    `json:"children,omitempty"`
	Currency string `json:"currency,omitempty"`

	// Stops: 0 any, 1 nonstop only, 2 one stop or fewer.
	Stops    int `json:"stops,omitempty"`
	MaxPrice int `json:"max_price,omitempty"`
}

// Flights searches live flight listings through the SerpApi Google
// Flights engine.
type Flights struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// FlightsOption configures the Flights capability.
type FlightsOption func(*Flights)

// WithFlightsBaseURL overrides the API endpoint, e.g. for tests.
func WithFlightsBaseURL(baseURL string) FlightsOption {
	return func(f *Flights) { f.baseURL = baseURL }
}

// WithFlightsHTTPClient overrides the transport.
func WithFlightsHTTPClient(client *http.Client) FlightsOption {
	return func(f *Flights) {
		if client != nil {
			f.client = client
		}
	}
}

// NewFlights creates the flight search capability.
func NewFlights(apiKey string, opts ...FlightsOption) *Flights {
	f := &Flights{
		apiKey:  apiKey,
		baseURL: serpapiURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Invoke implements ports.Capability.
func (f *Flights) Invoke(ctx context.Context, instruction string) (string, error) {
	if f.apiKey == "" {
		return "", capError("search_flights", fmt.Errorf("no SerpApi key configured"))
	}

	var q FlightQuery
	if err := parseInstruction(instruction, &q); err != nil {
		return "", capError("search_flights", fmt.Errorf("invalid flight query: %w", err))
	}
	if q.DepartureID == "" || q.ArrivalID == "" || q.OutboundDate == "" {
		return "", capError("search_flights", fmt.Errorf("departure_id, arrival_id and outbound_date are required"))
	}

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("api_key", f.apiKey)
	params.Set("departure_id", q.DepartureID)
	params.Set("arrival_id", q.ArrivalID)
	params.Set("outbound_date", q.OutboundDate)

	// SerpApi flight type: 1 round trip, 2 one way.
	if q.ReturnDate != "" {
		params.Set("type", "1")
		params.Set("return_date", q.ReturnDate)
	} else {
		params.Set("type", "2")
	}
	if q.TravelClass > 0 {
		params.Set("travel_class", strconv.Itoa(q.TravelClass))
	}
	if q.Adults > 0 {
		params.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	if q.Currency != "" {
		params.Set("currency", q.Currency)
	}
	if q.Stops > 0 {
		params.Set("stops", strconv.Itoa(q.Stops))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(q.MaxPrice))
	}

	var result flightResults
	if err := getJSON(ctx, f.client, f.baseURL, params, &result); err != nil {
		return "", capError("search_flights", err)
	}

	options := result.BestFlights
	if len(options) == 0 {
		options = result.OtherFlights
	}
	if len(options) == 0 {
		return fmt.Sprintf("No flights found from %s to %s on %s.", q.DepartureID, q.ArrivalID, q.OutboundDate), nil
	}
	if len(options) > 3 {
		options = options[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Flight options %s -> %s (%s):\n", q.DepartureID, q.ArrivalID, q.OutboundDate)
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s, %s, %d min total, price %d\n",
			i+1, opt.airlines(), opt.stopsSummary(), opt.TotalDuration, opt.Price)
	}
	return strings.TrimSpace(b.String()), nil
}

type flightResults struct {
	BestFlights  []flightOption `json:"best_flights"`
	OtherFlights []flightOption `json:"other_flights"`
}

type flightOption struct {
	Flights []struct {
		Airline string `json:"airline"`
	} `json:"flights"`
	TotalDuration int `json:"total_duration"`
	Price         int `json:"price"`
}

func (o flightOption) airlines() string {
	seen := map[string]bool{}
	var names []string
	for _, leg := range o.Flights {
		if leg.Airline != "" && !seen[leg.Airline] {
			seen[leg.Airline] = true
			names = append(names, leg.Airline)
		}
	}
	if len(names) == 0 {
		return "unknown airline"
	}
	return strings.Join(names, " + ")
}

func (o flightOption) stopsSummary() string {
	switch len(o.Flights) {
	case 0, 1:
		return "nonstop"
	case 2:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", len(o.Flights)-1)
	}
}
