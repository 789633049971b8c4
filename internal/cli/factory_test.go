package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/convoy/pkg/adapters/memory"
	"github.com/aretw0/convoy/pkg/domain"
)

func TestBuildApp_DefaultAgency(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	app, err := BuildApp(RunOptions{}, createLogger(false))
	require.NoError(t, err)

	assert.Equal(t, "travel_agency", app.Agency.Name())
	assert.True(t, app.Agency.Roster().Has("trip_planner"))
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Runner)
	assert.Nil(t, app.Collector)
}

func TestBuildApp_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := BuildApp(RunOptions{}, createLogger(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestBuildApp_FromAgencyFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "agency.yaml")
	doc := `
agency:
  name: support_desk
  persona: "You triage support requests."
  workers:
    - name: search
      description: "Searches the web"
      capability: web_search
oracle:
  model: gpt-4o-mini
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	app, err := BuildApp(RunOptions{AgencyPath: path}, createLogger(false))
	require.NoError(t, err)
	assert.Equal(t, "support_desk", app.Agency.Name())
	assert.True(t, app.Agency.Roster().Has("search"))
}

func TestBuildApp_UnknownAgencyFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	_, err := BuildApp(RunOptions{AgencyPath: "does-not-exist.yaml"}, createLogger(false))
	require.Error(t, err)
}

func TestBuildSessionManager_NoCredentialsNeeded(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	mgr, err := BuildSessionManager(RunOptions{})
	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestWrapStore_EncryptionFromEnv(t *testing.T) {
	t.Setenv("CONVOY_ENCRYPTION_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

	inner := memory.NewStore()
	store, err := wrapStore(inner)
	require.NoError(t, err)

	ctx := context.Background()
	log := []domain.Message{
		{Role: domain.RoleUser, Name: "user", Content: "book me a flight to Lisbon"},
	}
	require.NoError(t, store.Save(ctx, "s1", log))

	// At rest: a single envelope, plaintext nowhere in it.
	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.NotContains(t, raw[0].Content, "Lisbon")

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, log, loaded)
}

func TestWrapStore_RedactionFromEnv(t *testing.T) {
	t.Setenv("CONVOY_REDACT_PATTERNS", `\+\d{10,}`)

	inner := memory.NewStore()
	store, err := wrapStore(inner)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", []domain.Message{
		{Role: domain.RoleUser, Name: "user", Content: "text me at +33612345678"},
	}))

	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.NotContains(t, raw[0].Content, "+33612345678")
}

func TestBuildSessionManager_RejectsBadEncryptionKey(t *testing.T) {
	t.Setenv("CONVOY_ENCRYPTION_KEY", "too-short")

	_, err := BuildSessionManager(RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONVOY_ENCRYPTION_KEY")
}
