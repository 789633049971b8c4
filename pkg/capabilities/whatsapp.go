package capabilities

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const whatsappGraphURL = "https://graph.facebook.com/v18.0"

// WhatsAppMessage is the instruction contract of the WhatsApp delivery
// capability.
type WhatsAppMessage struct {
	// To is an E.164 phone number, e.g. "+33612345678". Empty falls back
	// to the configured default recipient.
	To string `json:"to,omitempty"`

	// Message is the text body to deliver.
	Message string `json:"message"`
}

// WhatsApp sends text messages through the WhatsApp Business Cloud API.
type WhatsApp struct {
	token            string
	phoneNumberID    string
	defaultRecipient string
	baseURL          string
	client           *http.Client
}

// WhatsAppOption configures the WhatsApp capability.
type WhatsAppOption func(*WhatsApp)

// WithWhatsAppBaseURL overrides the Graph API endpoint, e.g. for tests.
func WithWhatsAppBaseURL(baseURL string) WhatsAppOption {
	return func(w *WhatsApp) { w.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithWhatsAppDefaultRecipient sets the number used when an instruction
// names no recipient.
func WithWhatsAppDefaultRecipient(number string) WhatsAppOption {
	return func(w *WhatsApp) { w.defaultRecipient = number }
}

// WithWhatsAppHTTPClient overrides the transport.
func WithWhatsAppHTTPClient(client *http.Client) WhatsAppOption {
	return func(w *WhatsApp) {
		if client != nil {
			w.client = client
		}
	}
}

// NewWhatsApp creates the delivery capability for one business phone
// number.
func NewWhatsApp(token, phoneNumberID string, opts ...WhatsAppOption) *WhatsApp {
	w := &WhatsApp{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       whatsappGraphURL,
		client:        &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Invoke implements ports.Capability.
func (w *WhatsApp) Invoke(ctx context.Context, instruction string) (string, error) {
	if w.token == "" || w.phoneNumberID == "" {
		return "", capError("send_whatsapp", fmt.Errorf("WhatsApp credentials not configured"))
	}

	var msg WhatsAppMessage
	if err := parseInstruction(instruction, &msg); err != nil {
		return "", capError("send_whatsapp", fmt.Errorf("invalid message instruction: %w", err))
	}
	if msg.Message == "" {
		return "", capError("send_whatsapp", fmt.Errorf("message is required"))
	}
	to := msg.To
	if to == "" {
		to = w.defaultRecipient
	}
	if to == "" {
		return "", capError("send_whatsapp", fmt.Errorf("no recipient: set to or configure a default"))
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": msg.Message},
	}

	endpoint := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	auth := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+w.token) }
	if err := postJSONWithAuth(ctx, w.client, endpoint, payload, nil, auth); err != nil {
		return "", capError("send_whatsapp", err)
	}
	return fmt.Sprintf("Message delivered to %s: %s", to, msg.Message), nil
}
