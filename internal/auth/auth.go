package auth

import (
	"context"
	"fmt"
	"time"

	"ims-client/internal/model"
	"ims-client/internal/session"
	"ims-client/pkg/apierror"
)

// Service performs the local credential check and manages the persisted
// session. Credentials are hardcoded for now; this is a stand-in until the
// backend exposes a real auth endpoint.
type Service struct {
	sessions *session.Store
}

// New creates an auth service backed by the given session store.
func New(sessions *session.Store) *Service {
	return &Service{sessions: sessions}
}

// Login checks the credentials and, on success, persists a generated token
// and the user profile.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, error) {
	const op = "login"

	if username != "admin" || password != "admin123" {
		return model.User{}, apierror.Validation(op, "invalid username or password")
	}

	token := fmt.Sprintf("mock-jwt-token-%d", time.Now().UnixMilli())
	user := model.User{Username: username, Role: "ADMIN"}

	if err := s.sessions.Save(ctx, token, user); err != nil {
		return model.User{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return user, nil
}

// Logout clears the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// CurrentUser returns the restored session profile, if any.
func (s *Service) CurrentUser(ctx context.Context) (model.User, bool) {
	return s.sessions.User(ctx)
}
