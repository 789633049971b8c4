package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
)

// Mask replaces matched substrings in persisted message content.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks substrings of
// message content matching the given patterns before persistence. The
// in-memory log handed to the engine is left untouched; only the stored
// copy is masked.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, sessionID string, log []domain.Message) error {
	masked := make([]domain.Message, len(log))
	for i, msg := range log {
		for _, p := range m.patterns {
			msg.Content = p.ReplaceAllString(msg.Content, Mask)
		}
		masked[i] = msg
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
