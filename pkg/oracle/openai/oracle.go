// Package openai implements the decision oracle against any
// OpenAI-compatible chat completions API, using structured output to
// constrain routing decisions to the team roster.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/schema"
)

const (
	defaultModel          = "gpt-4o"
	defaultRequestTimeout = 120 * time.Second
)

// Oracle asks a chat model for routing decisions. Responses are
// constrained by a JSON schema built from the roster and parsed
// tolerantly on top of that.
type Oracle struct {
	client      *sdk.Client
	model       string
	temperature float64
	logger      *slog.Logger

	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Oracle.
type Option func(*Oracle)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(o *Oracle) {
		if strings.TrimSpace(model) != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the oracle at a compatible API (proxy, local
// server, test double).
func WithBaseURL(baseURL string) Option {
	return func(o *Oracle) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTemperature sets the sampling temperature. Routing benefits from
// low values.
func WithTemperature(temperature float64) Option {
	return func(o *Oracle) {
		o.temperature = temperature
	}
}

// WithHTTPClient overrides the transport, e.g. for custom timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Oracle) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an oracle for the given API key.
func New(apiKey string, opts ...Option) *Oracle {
	o := &Oracle{
		model:      defaultModel,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	reqOpts := []option.RequestOption{
		option.WithHTTPClient(o.httpClient),
	}
	if o.apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	client := sdk.NewClient(reqOpts...)
	o.client = &client
	return o
}

// Decide implements ports.Oracle.
func (o *Oracle) Decide(ctx context.Context, preamble string, history []domain.Message, roster domain.Roster) (domain.Decision, error) {
	params := sdk.ChatCompletionNewParams{
		Model:    o.model,
		Messages: o.buildMessages(preamble, history, roster),
		ResponseFormat: sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "routing_decision",
					Strict: sdk.Bool(true),
					Schema: schema.RoutingSchema(roster),
				},
			},
		},
	}
	if o.temperature > 0 {
		params.Temperature = sdk.Float(o.temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Decision{}, classifyError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.Decision{}, fmt.Errorf("%w: API returned no choices", domain.ErrOracleUnavailable)
	}

	content := resp.Choices[0].Message.Content
	o.logger.Debug("oracle response", "model", o.model, "content", content)

	decision, err := schema.ParseDecision(content)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("oracle produced unparseable decision: %w", err)
	}
	return decision, nil
}

func (o *Oracle) buildMessages(preamble string, history []domain.Message, roster domain.Roster) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(history)+1)
	out = append(out, sdk.SystemMessage(SystemPrompt(preamble, roster)))

	for _, turn := range renderHistory(history) {
		switch turn.role {
		case domain.RoleAssistant:
			out = append(out, sdk.AssistantMessage(turn.content))
		case domain.RoleSystem:
			out = append(out, sdk.SystemMessage(turn.content))
		default:
			out = append(out, sdk.UserMessage(turn.content))
		}
	}
	return out
}

// classifyError separates transient outages, which the driver retries,
// from permanent request failures.
func classifyError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: status %d: %s", domain.ErrOracleUnavailable, apiErr.StatusCode, strings.TrimSpace(apiErr.Message))
		}
		return fmt.Errorf("oracle request rejected (status %d): %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Message))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
}
