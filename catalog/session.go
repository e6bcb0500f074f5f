package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TokenStore persists the session credential between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a file readable only by its owner.
type FileTokenStore struct {
	Path string
}

func (s FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func (s FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// CredentialValidator checks whether a stored credential is still usable.
type CredentialValidator interface {
	ValidateCredential(ctx context.Context, token string) (bool, error)
}

// Session holds the bearer credential shared by every Gateway call. Any
// auth failure reported through HandleAuthError clears it.
type Session struct {
	mu          sync.RWMutex
	token       string
	store       TokenStore
	authHandler []func(error)
	logger      zerolog.Logger
}

type SessionOption func(*Session)

func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession returns an empty session. store may be nil.
func NewSession(store TokenStore, opts ...SessionOption) *Session {
	s := &Session{store: store, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores token in memory and, when configured, in the token store.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	s.token = token
	store := s.store
	s.mu.Unlock()

	if store != nil {
		return store.Save(token)
	}
	return nil
}

func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	store := s.store
	s.mu.Unlock()

	if store != nil {
		return store.Clear()
	}
	return nil
}

// Restore loads a previously persisted token.
func (s *Session) Restore() error {
	if s.store == nil {
		return nil
	}
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// OnAuthError registers fn to run after the session is cleared because
// the service rejected the credential.
func (s *Session) OnAuthError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authHandler = append(s.authHandler, fn)
}

// HandleAuthError clears the session and notifies OnAuthError listeners.
func (s *Session) HandleAuthError(err error) {
	if clearErr := s.Clear(); clearErr != nil {
		s.logger.Error().Err(clearErr).Msg("Failed to clear stored token")
	}

	s.mu.RLock()
	handlers := append([]func(error){}, s.authHandler...)
	s.mu.RUnlock()

	for _, fn := range handlers {
		fn(err)
	}
}

// Start restores the persisted token and validates it once. An invalid or
// unverifiable token is cleared. It reports whether the session is usable.
func (s *Session) Start(ctx context.Context, validator CredentialValidator) (bool, error) {
	if err := s.Restore(); err != nil {
		return false, err
	}
	token := s.Token()
	if token == "" {
		return false, nil
	}

	ok, err := validator.ValidateCredential(ctx, token)
	if err != nil || !ok {
		if clearErr := s.Clear(); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear stored token")
		}
		return false, err
	}
	return true, nil
}
