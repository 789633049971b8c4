package capabilities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/convoy/pkg/domain"
)

const defaultTimeout = 60 * time.Second

// capError wraps an operational failure into the recoverable capability
// error the engine expects.
func capError(capability string, err error) error {
	return &domain.CapabilityError{Capability: capability, Err: err}
}

// getJSON performs a GET with query parameters and decodes the JSON
// response into out.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return json.Unmarshal(body, out)
}

// postJSON performs a POST with a JSON body and decodes the JSON
// response into out.
func postJSON(ctx context.Context, client *http.Client, rawURL string, payload any, out any) error {
	return postJSONWithAuth(ctx, client, rawURL, payload, out, nil)
}

// postJSONWithAuth is postJSON with a request hook for auth headers.
func postJSONWithAuth(ctx context.Context, client *http.Client, rawURL string, payload any, out any, modify func(*http.Request)) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if modify != nil {
		modify(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// parseInstruction decodes a JSON instruction into out. Markdown fences
// are tolerated since instructions are model-generated.
func parseInstruction(instruction string, out any) error {
	s := strings.TrimSpace(instruction)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		return fmt.Errorf("expected a JSON object instruction, got: %s", truncate(s, 120))
	}
	return json.Unmarshal([]byte(s), out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
