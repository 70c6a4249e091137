package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"ims-client/internal/session"
	"ims-client/pkg/apierror"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store)
}

func TestLoginPersistsSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" || user.Role != "ADMIN" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	restored, ok := svc.CurrentUser(ctx)
	if !ok || restored != user {
		t.Fatalf("session not restored: %+v, ok=%v", restored, ok)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, creds := range [][2]string{
		{"admin", "wrong"},
		{"root", "admin123"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, creds[0], creds[1])
		if apierror.KindOf(err) != apierror.KindValidation {
			t.Fatalf("%v: expected a validation error, got %v", creds, err)
		}
		if !strings.Contains(err.Error(), "invalid username or password") {
			t.Fatalf("error should not reveal which part failed: %v", err)
		}
		if _, ok := svc.CurrentUser(ctx); ok {
			t.Fatal("failed login must not leave a session behind")
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := svc.CurrentUser(ctx); ok {
		t.Fatal("session should be gone after logout")
	}
}
