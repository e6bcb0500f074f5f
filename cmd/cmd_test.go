package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio/api"
	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type cliEnv struct {
	apiURL    string
	tokenFile string
	db        database.Database
	dir       string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CHATBOT_CONTENT", "")

	c := map[string]string{
		"DB_TYPE":     "sqlite",
		"SQLITE_PATH": filepath.Join(dir, "portfolio.db"),
		"JWT_SECRET":  "cli-test-secret",
		"BCRYPT_COST": "4",
	}
	gormDB, err := database.Open(c)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	db := database.New(gormDB)

	images, err := storage.NewDiskStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	server, err := api.NewServer(c, api.Dependencies{Database: db, Images: images})
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &cliEnv{apiURL: ts.URL, tokenFile: filepath.Join(dir, "token"), db: db, dir: dir}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--api-url", e.apiURL, "--token-file", e.tokenFile))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIProjectWorkflow(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "signup", "--email", "owner@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed up")

	imagePath := filepath.Join(env.dir, "cover.png")
	require.NoError(t, os.WriteFile(imagePath, pngBytes, 0o600))

	out, err = env.run(t, "", "projects", "create",
		"--title", "Portfolio",
		"--description", "This site",
		"--tech", "Go, React",
		"--tags", "web",
		"--featured",
		"--image", imagePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Project created")

	projects, err := env.db.ProjectRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	id := projects[0].ID.String()
	imageURL := projects[0].ImageURL
	assert.True(t, projects[0].Featured)
	assert.NotEmpty(t, imageURL)

	out, err = env.run(t, "", "projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Portfolio")
	assert.Contains(t, out, "featured")
	assert.Contains(t, out, "Go · React")
	assert.Contains(t, out, env.apiURL+imageURL)

	out, err = env.run(t, "", "projects", "update", id, "--description", "Rewritten")
	require.NoError(t, err)
	assert.Contains(t, out, "Project updated")

	updated, err := env.db.ProjectRepo().FindByID(projects[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten", updated.Description)
	assert.Equal(t, "Portfolio", updated.Title)
	assert.True(t, updated.Featured)
	assert.Equal(t, imageURL, updated.ImageURL)

	_, err = env.run(t, "", "projects", "update", "missing-id", "--title", "x")
	assert.True(t, errs.IsNotFound(err))

	out, err = env.run(t, "n\n", "projects", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = env.run(t, "", "projects", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Project deleted")

	out, err = env.run(t, "", "projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet")
}

func TestCLIRequiresLogin(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "projects", "list")
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))

	out, err := env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestCLISessionLifecycle(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "owner@example.com\npassword123\n", "signup")
	require.NoError(t, err)

	out, err := env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	_, err = env.run(t, "", "logout")
	require.NoError(t, err)
	_, statErr := os.Stat(env.tokenFile)
	assert.True(t, os.IsNotExist(statErr))

	_, err = env.run(t, "", "login", "--email", "owner@example.com", "--password", "wrong-password")
	assert.True(t, errs.IsUnauthorized(err))

	out, err = env.run(t, "", "login", "--email", "owner@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as owner@example.com")

	out, err = env.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "API is ok")
}

func TestCLIAdmins(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "signup", "--email", "owner@example.com", "--password", "password123")
	require.NoError(t, err)

	out, err := env.run(t, "", "admins", "create", "--email", "second@example.com", "--password", "password456")
	require.NoError(t, err)
	assert.Contains(t, out, "second@example.com created")

	out, err = env.run(t, "", "admins", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "owner@example.com")
	assert.Contains(t, out, "second@example.com")

	second, err := env.db.AdminRepo().FindByEmail("second@example.com")
	require.NoError(t, err)

	_, err = env.run(t, "", "admins", "update", second.ID.String())
	assert.Error(t, err)

	out, err = env.run(t, "", "admins", "update", second.ID.String(), "--email", "renamed@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed@example.com updated")

	out, err = env.run(t, "", "admins", "delete", second.ID.String(), "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin deleted")
}

func TestCLIContactNotConfigured(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "contact", "--name", "Ada")
	assert.True(t, errs.IsValidation(err))

	_, err = env.run(t, "", "contact", "--name", "Ada", "--email", "ada@example.com", "--message", "Hi")
	require.Error(t, err)
	assert.True(t, errs.IsRemote(err))
}

func TestChatCommands(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "chat", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Projects")

	out, err = env.run(t, "", "chat", "questions", "About", "Me")
	require.NoError(t, err)
	assert.Contains(t, out, "Who am I?")

	_, err = env.run(t, "", "chat", "questions", "Nope")
	assert.Error(t, err)

	out, err = env.run(t, "", "chat", "ask", "who", "am", "i")
	require.NoError(t, err)
	assert.Contains(t, out, "software engineer")
}

func TestChatInteractive(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "2\n1\n0\nskills\nq\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi! I'm the portfolio chatbot")
	assert.Contains(t, out, "Here are some questions about Projects.")
	assert.Contains(t, out, "This portfolio, including")
	assert.Contains(t, out, "Backend: Go")
}

func TestMigrateReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "migrate.db"))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--report"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Schema is up to date")
	assert.Contains(t, out.String(), "projects: OK")
	assert.Contains(t, out.String(), "admins: OK")
}
