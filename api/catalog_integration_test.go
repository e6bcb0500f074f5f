package api

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/errs"
)

func TestReconcilerAgainstServer(t *testing.T) {
	env := newTestEnv(t, Dependencies{}, nil)
	ctx := context.Background()

	session := catalog.NewSession(catalog.FileTokenStore{Path: filepath.Join(t.TempDir(), "token")})
	gateway, err := catalog.NewHTTPGateway(env.server.URL, session)
	require.NoError(t, err)

	health, err := gateway.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	require.NoError(t, gateway.Signup(ctx, "owner@example.com", "password123"))
	require.True(t, session.Authenticated())

	rec := catalog.NewReconciler(gateway, catalog.NewEditForm(), catalog.NewCache())
	require.NoError(t, rec.Refresh(ctx))
	assert.Empty(t, rec.Cache().Get())

	form := rec.Form()
	form.BeginCreate()
	require.NoError(t, form.SetField("title", "Portfolio"))
	require.NoError(t, form.SetField("description", "This site"))
	require.NoError(t, form.SetField("tags", "web, go"))
	require.NoError(t, form.SetField("featured", "on"))
	form.AttachImage(&catalog.ImageAttachment{Filename: "cover.png", ContentType: "image/png", Data: pngBytes})

	require.NoError(t, rec.Submit(ctx))
	assert.Equal(t, catalog.StateIdle, rec.State())
	assert.False(t, form.Snapshot().Editing())

	records := rec.Cache().Get()
	require.Len(t, records, 1)
	created := records[0]
	assert.True(t, created.Featured)
	assert.True(t, strings.HasPrefix(created.ImageURL, "/uploads/"))
	assert.Equal(t, env.server.URL+created.ImageURL, gateway.ResolveImageURL(created.ImageURL))

	form.BeginEdit(created)
	require.NoError(t, form.SetField("title", "Renamed"))
	require.NoError(t, rec.Submit(ctx))

	updated, ok := rec.Cache().Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, created.ImageURL, updated.ImageURL)
	assert.Equal(t, "This site", updated.Description)

	tags, err := gateway.ListTags(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"web", "go"}, tags)

	require.NoError(t, rec.Delete(ctx, created.ID))
	assert.Empty(t, rec.Cache().Get())

	err = rec.Delete(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestReconcilerServerValidation(t *testing.T) {
	env := newTestEnv(t, Dependencies{}, nil)
	ctx := context.Background()

	session := catalog.NewSession(catalog.FileTokenStore{Path: filepath.Join(t.TempDir(), "token")})
	gateway, err := catalog.NewHTTPGateway(env.server.URL, session)
	require.NoError(t, err)
	require.NoError(t, gateway.Signup(ctx, "owner@example.com", "password123"))

	rec := catalog.NewReconciler(gateway, catalog.NewEditForm(), catalog.NewCache())
	rec.Form().BeginCreate()
	require.NoError(t, rec.Form().SetField("title", "With bad image"))
	require.NoError(t, rec.Form().SetField("description", "d"))
	rec.Form().AttachImage(&catalog.ImageAttachment{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})

	err = rec.Submit(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsRemote(err))
	assert.Equal(t, "With bad image", rec.Form().Snapshot().Title)
}

func TestGatewaySessionExpiry(t *testing.T) {
	env := newTestEnv(t, Dependencies{}, nil)
	ctx := context.Background()

	session := catalog.NewSession(catalog.FileTokenStore{Path: filepath.Join(t.TempDir(), "token")})
	require.NoError(t, session.Set("stale-token"))
	gateway, err := catalog.NewHTTPGateway(env.server.URL, session)
	require.NoError(t, err)

	var authErr error
	session.OnAuthError(func(err error) { authErr = err })

	_, err = gateway.ListProjects(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.Error(t, authErr)
	assert.False(t, session.Authenticated())
}
