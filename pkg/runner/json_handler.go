package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/convoy/pkg/domain"
)

// JSONHandler emits turn progress as JSON Lines, one object per event.
// Suited for headless hosts that parse the stream programmatically.
type JSONHandler struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONHandler creates a handler writing JSON lines to w.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{encoder: json.NewEncoder(w)}
}

type jsonLine struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
	Notice  string          `json:"notice,omitempty"`
}

func (h *JSONHandler) OnMessage(ctx context.Context, msg domain.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(jsonLine{Type: "message", Message: &msg})
}

func (h *JSONHandler) OnNotice(ctx context.Context, notice string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(jsonLine{Type: "notice", Notice: notice})
}
