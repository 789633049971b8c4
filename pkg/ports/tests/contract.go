// Package tests provides reusable contract suites for port implementations.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Adapters (memory, redis, middleware
// stacks) run this suite against themselves.
func RunSessionStoreContract(t *testing.T, store ports.SessionStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	log := []domain.Message{
		domain.UserMessage("user", "plan me a trip to Austin"),
		domain.UserMessage("trip_planner", "CDG->AUS, 2025-06-01, $412"),
		{Role: domain.RoleAssistant, Name: "supervisor", Content: "Here is your trip."},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, log))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, log, loaded)
	})

	t.Run("Save replaces previous log", func(t *testing.T) {
		longer := append(append([]domain.Message{}, log...), domain.SystemMessage("notice"))
		require.NoError(t, store.Save(ctx, sessionID, longer))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, loaded, len(log)+1)
	})

	t.Run("Load isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotEmpty(t, loaded)

		// Mutating the loaded slice must not corrupt the stored log.
		loaded[0].Content = "tampered"
		reloaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotEqual(t, "tampered", reloaded[0].Content)
	})

	t.Run("List includes session", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))
		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete non-existent is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "does-not-exist"))
	})
}
