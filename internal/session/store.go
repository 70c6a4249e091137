package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ims-client/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// Fixed keys under which session state is persisted, mirroring the browser
// localStorage keys the backend's web client uses.
const (
	tokenKey = "token"
	userKey  = "user"
)

// Store persists the bearer token and minimal user profile across runs.
// It is the CLI equivalent of browser local storage: read on startup to
// restore a session and on every outgoing request to attach the token.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the session store at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create session tables: %w", err)
	}

	log.Printf("[SessionStore] Initialized with database: %s", path)
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS session_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := db.Exec(query)
	return err
}

// Token returns the persisted bearer token, or the empty string when no
// session is active.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, tokenKey)
}

// User returns the persisted user profile. ok is false when no session is
// active or the stored profile is unreadable.
func (s *Store) User(ctx context.Context) (model.User, bool) {
	raw, err := s.get(ctx, userKey)
	if err != nil || raw == "" {
		return model.User{}, false
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// Stored profile is unreadable, treat the session as absent.
		log.Printf("Warning: failed to parse stored user, clearing session: %v", err)
		_ = s.Clear(ctx)
		return model.User{}, false
	}
	return u, true
}

// Save persists a token and user profile, replacing any previous session.
func (s *Store) Save(ctx context.Context, token string, user model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.ExecContext(ctx, query, tokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, userKey, string(userJSON)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	return tx.Commit()
}

// Clear removes all persisted session state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM session_state`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session state: %w", err)
	}
	return value, nil
}
