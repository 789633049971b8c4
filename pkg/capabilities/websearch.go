package capabilities

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const tavilyURL = "https://api.tavily.com/search"

// WebSearch answers open questions through the Tavily search API. The
// instruction is the query itself: plain text, or a JSON object with a
// query field.
type WebSearch struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
}

// WebSearchOption configures the WebSearch capability.
type WebSearchOption func(*WebSearch)

// WithWebSearchBaseURL overrides the API endpoint, e.g. for tests.
func WithWebSearchBaseURL(baseURL string) WebSearchOption {
	return func(s *WebSearch) { s.baseURL = baseURL }
}

// WithWebSearchMaxResults bounds how many results enter the digest.
func WithWebSearchMaxResults(n int) WebSearchOption {
	return func(s *WebSearch) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithWebSearchHTTPClient overrides the transport.
func WithWebSearchHTTPClient(client *http.Client) WebSearchOption {
	return func(s *WebSearch) {
		if client != nil {
			s.client = client
		}
	}
}

// NewWebSearch creates the web search capability.
func NewWebSearch(apiKey string, opts ...WebSearchOption) *WebSearch {
	s := &WebSearch{
		apiKey:     apiKey,
		baseURL:    tavilyURL,
		maxResults: 3,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invoke implements ports.Capability.
func (s *WebSearch) Invoke(ctx context.Context, instruction string) (string, error) {
	if s.apiKey == "" {
		return "", capError("web_search", fmt.Errorf("no Tavily key configured"))
	}

	query := strings.TrimSpace(instruction)
	if strings.HasPrefix(query, "{") || strings.HasPrefix(query, "```") {
		var structured struct {
			Query string `json:"query"`
		}
		if err := parseInstruction(instruction, &structured); err == nil && structured.Query != "" {
			query = structured.Query
		}
	}
	if query == "" {
		return "", capError("web_search", fmt.Errorf("empty search query"))
	}

	payload := map[string]any{
		"api_key":     s.apiKey,
		"query":       query,
		"max_results": s.maxResults,
	}

	var result struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := postJSON(ctx, s.client, s.baseURL, payload, &result); err != nil {
		return "", capError("web_search", err)
	}
	if result.Answer == "" && len(result.Results) == 0 {
		return fmt.Sprintf("No results found for %q.", query), nil
	}

	var b strings.Builder
	if result.Answer != "" {
		b.WriteString(result.Answer + "\n")
	}
	for i, r := range result.Results {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, r.Title, r.URL, truncate(r.Content, 300))
	}
	return strings.TrimSpace(b.String()), nil
}
