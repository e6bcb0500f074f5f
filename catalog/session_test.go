package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio/errs"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "token")}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc"))
	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestSessionHandleAuthErrorClearsAndNotifies(t *testing.T) {
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "token")}
	session := NewSession(store)
	require.NoError(t, session.Set("abc"))

	var got error
	session.OnAuthError(func(err error) { got = err })
	session.HandleAuthError(errs.NewAuthError("expired"))

	assert.False(t, session.Authenticated())
	assert.True(t, errs.IsUnauthorized(got))

	restored := NewSession(store)
	require.NoError(t, restored.Restore())
	assert.Empty(t, restored.Token())
}

type stuckTokenStore struct {
	token string
}

func (s *stuckTokenStore) Load() (string, error) { return s.token, nil }
func (s *stuckTokenStore) Save(token string) error { s.token = token; return nil }
func (s *stuckTokenStore) Clear() error { return errors.New("permission denied") }

func TestSessionHandleAuthErrorLogsFailedClear(t *testing.T) {
	var logs bytes.Buffer
	store := &stuckTokenStore{}
	session := NewSession(store, WithSessionLogger(zerolog.New(&logs)))
	require.NoError(t, session.Set("abc"))

	notified := false
	session.OnAuthError(func(error) { notified = true })
	session.HandleAuthError(errs.NewAuthError("expired"))

	assert.False(t, session.Authenticated())
	assert.True(t, notified)
	assert.Contains(t, logs.String(), "Failed to clear stored token")
	assert.Contains(t, logs.String(), "permission denied")
}

func TestSessionStart(t *testing.T) {
	dir := t.TempDir()
	validator := newFakeGateway()

	good := NewSession(FileTokenStore{Path: filepath.Join(dir, "good")})
	require.NoError(t, good.Set("good"))
	ok, err := NewSession(FileTokenStore{Path: filepath.Join(dir, "good")}).Start(context.Background(), validator)
	require.NoError(t, err)
	assert.True(t, ok)

	bad := NewSession(FileTokenStore{Path: filepath.Join(dir, "bad")})
	require.NoError(t, bad.Set("stale"))
	ok, err = bad.Start(context.Background(), validator)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, bad.Token())

	empty := NewSession(nil)
	ok, err = empty.Start(context.Background(), validator)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, validator.count("validate"))
}
