package capabilities

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HotelQuery is the instruction contract of the hotel search capability.
type HotelQuery struct {
	// Query is the search phrase, e.g. "hotels in Austin".
	Query string `json:"q"`

	// CheckInDate and CheckOutDate use the YYYY-MM-DD format.
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`

	Adults   int    `json:"adults,omitempty"`
	Children int    `json:"children,omitempty"`
	Currency string `json:"currency,omitempty"`
	MinPrice int    `json:"min_price,omitempty"`
	MaxPrice int    `json:"max_price,omitempty"`

	// Rating filter: 7 means 3.5+, 8 means 4.0+, 9 means 4.5+.
	Rating int `json:"rating,omitempty"`
}

// Hotels searches lodging through the SerpApi Google Hotels engine.
type Hotels struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// HotelsOption configures the Hotels capability.
type HotelsOption func(*Hotels)

// WithHotelsBaseURL overrides the API endpoint, e.g. for tests.
func WithHotelsBaseURL(baseURL string) HotelsOption {
	return func(h *Hotels) { h.baseURL = baseURL }
}

// WithHotelsHTTPClient overrides the transport.
func WithHotelsHTTPClient(client *http.Client) HotelsOption {
	return func(h *Hotels) {
		if client != nil {
			h.client = client
		}
	}
}

// NewHotels creates the hotel search capability.
func NewHotels(apiKey string, opts ...HotelsOption) *Hotels {
	h := &Hotels{
		apiKey:  apiKey,
		baseURL: serpapiURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invoke implements ports.Capability.
func (h *Hotels) Invoke(ctx context.Context, instruction string) (string, error) {
	if h.apiKey == "" {
		return "", capError("search_hotels", fmt.Errorf("no SerpApi key configured"))
	}

	var q HotelQuery
	if err := parseInstruction(instruction, &q); err != nil {
		return "", capError("search_hotels", fmt.Errorf("invalid hotel query: %w", err))
	}
	if q.Query == "" || q.CheckInDate == "" || q.CheckOutDate == "" {
		return "", capError("search_hotels", fmt.Errorf("q, check_in_date and check_out_date are required"))
	}

	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("api_key", h.apiKey)
	params.Set("q", q.Query)
	params.Set("check_in_date", q.CheckInDate)
	params.Set("check_out_date", q.CheckOutDate)
	if q.Adults > 0 {
		params.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	if q.Currency != "" {
		params.Set("currency", q.Currency)
	}
	if q.MinPrice > 0 {
		params.Set("min_price", strconv.Itoa(q.MinPrice))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(q.MaxPrice))
	}
	if q.Rating > 0 {
		params.Set("rating", strconv.Itoa(q.Rating))
	}

	var result hotelResults
	if err := getJSON(ctx, h.client, h.baseURL, params, &result); err != nil {
		return "", capError("search_hotels", err)
	}

	// Plain hotels first; vacation rentals share the properties list.
	var hotels []hotelProperty
	for _, p := range result.Properties {
		if p.Type == "hotel" {
			hotels = append(hotels, p)
		}
	}
	if len(hotels) == 0 {
		return fmt.Sprintf("No hotels found for %q between %s and %s.", q.Query, q.CheckInDate, q.CheckOutDate), nil
	}
	if len(hotels) > 3 {
		hotels = hotels[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hotel options for %q (%s to %s):\n", q.Query, q.CheckInDate, q.CheckOutDate)
	for i, p := range hotels {
		line := fmt.Sprintf("%d. %s", i+1, p.Name)
		if p.OverallRating > 0 {
			line += fmt.Sprintf(", rating %.1f", p.OverallRating)
		}
		if p.RatePerNight.Lowest != "" {
			line += fmt.Sprintf(", from %s/night", p.RatePerNight.Lowest)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String()), nil
}

type hotelResults struct {
	Properties []hotelProperty `json:"properties"`
}

type hotelProperty struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	OverallRating float64 `json:"overall_rating"`
	RatePerNight  struct {
		Lowest string `json:"lowest"`
	} `json:"rate_per_night"`
}
