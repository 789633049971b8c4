package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/convoy/pkg/domain"
)

// ContentRenderer transforms content before it is written. This allows
// TUI rendering (markdown to ANSI) without coupling the driver to a
// terminal library.
type ContentRenderer func(string) (string, error)

// TextHandler writes turn progress as plain text, one speaker-prefixed
// block per message.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
}

// NewTextHandler creates a handler for standard text output.
func NewTextHandler(w io.Writer) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{Writer: w}
}

func (h *TextHandler) OnMessage(ctx context.Context, msg domain.Message) error {
	output := msg.Content
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg.Content); err == nil {
			output = rendered
		}
	}

	speaker := msg.Name
	if speaker == "" {
		speaker = string(msg.Role)
	}

	_, err := fmt.Fprintf(h.Writer, "[%s] %s\n", speaker, strings.TrimSpace(output))
	return err
}

func (h *TextHandler) OnNotice(ctx context.Context, notice string) error {
	_, err := fmt.Fprintf(h.Writer, "-- %s\n", notice)
	return err
}
