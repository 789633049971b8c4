package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	original := []domain.Message{
		domain.UserMessage("user", "my passport number is X123"),
		{Role: domain.RoleAssistant, Name: "supervisor", Content: "Noted."},
	}

	if err := secureStore.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The backing store must only ever see the opaque envelope.
	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "__encrypted__" {
		t.Fatalf("Expected single envelope message, got %v", stored)
	}
	for _, msg := range stored {
		if msg.Content == "my passport number is X123" {
			t.Fatal("Plaintext leaked into backing store")
		}
	}

	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Content != "my passport number is X123" {
		t.Errorf("Decrypted log does not match original: %v", loaded)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	mwOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	secureStoreOld := mwOld(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"
	original := []domain.Message{domain.UserMessage("user", "encrypted-with-old-key")}

	if err := secureStoreOld.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mwNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	secureStoreNew := mwNew(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Content != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed: %v", loaded)
	}

	// Re-saving re-encrypts with the new active key.
	if err := secureStoreNew.Save(ctx, sessionID, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
