package session

import (
	"context"
	"path/filepath"
	"testing"

	"ims-client/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveAndRestore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if token, err := store.Token(ctx); err != nil || token != "" {
		t.Fatalf("fresh store should have no token, got %q, %v", token, err)
	}
	if _, ok := store.User(ctx); ok {
		t.Fatal("fresh store should have no user")
	}

	user := model.User{Username: "admin", Role: "ADMIN"}
	if err := store.Save(ctx, "mock-jwt-token-123", user); err != nil {
		t.Fatalf("save: %v", err)
	}

	token, err := store.Token(ctx)
	if err != nil || token != "mock-jwt-token-123" {
		t.Fatalf("token after save: %q, %v", token, err)
	}
	got, ok := store.User(ctx)
	if !ok || got != user {
		t.Fatalf("user after save: %+v, ok=%v", got, ok)
	}
}

func TestStoreSaveReplacesPreviousSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "first", model.User{Username: "admin", Role: "ADMIN"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "second", model.User{Username: "admin", Role: "ADMIN"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	token, err := store.Token(ctx)
	if err != nil || token != "second" {
		t.Fatalf("expected latest token, got %q, %v", token, err)
	}
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok", model.User{Username: "admin", Role: "ADMIN"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if token, _ := store.Token(ctx); token != "" {
		t.Fatalf("token should be gone after clear, got %q", token)
	}
	if _, ok := store.User(ctx); ok {
		t.Fatal("user should be gone after clear")
	}
}

func TestStoreClearsUnreadableProfile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Corrupt the stored profile directly.
	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO session_state (key, value) VALUES (?, ?)`, userKey, "{not json"); err != nil {
		t.Fatalf("seed corrupt profile: %v", err)
	}

	if _, ok := store.User(ctx); ok {
		t.Fatal("corrupt profile must not yield a user")
	}
	raw, err := store.get(ctx, userKey)
	if err != nil || raw != "" {
		t.Fatalf("corrupt profile should have been cleared, got %q, %v", raw, err)
	}
}
