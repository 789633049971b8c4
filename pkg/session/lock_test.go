package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/convoy/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, sessionID string, log []domain.Message) error { return nil }
func (nopStore) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return nil, nil
}
func (nopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, nil)
		_ = mgr.Delete(ctx, sid)
	}

	// Reference counting must leave the map empty once every caller
	// has released its session.
	if remaining := len(mgr.locks); remaining != 0 {
		t.Errorf("lock leak: %d entries remaining after %d sessions", remaining, count)
	}
}
