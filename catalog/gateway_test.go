package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio/errs"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*HTTPGateway, *Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewSession(nil)
	require.NoError(t, session.Set("tok"))
	gateway, err := NewHTTPGateway(server.URL, session)
	require.NoError(t, err)
	return gateway, session
}

func TestUpdateProjectWithoutImageSendsNoImagePart(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/projects/abc", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "New", r.FormValue("title"))
		assert.Equal(t, "true", r.FormValue("featured"))
		assert.Equal(t, "3", r.FormValue("sortOrder"))
		assert.Empty(t, r.MultipartForm.File)
		_, hasImageField := r.MultipartForm.Value["image"]
		assert.False(t, hasImageField)

		json.NewEncoder(w).Encode(ProjectRecord{ID: "abc", Title: "New", ImageURL: "a.png"})
	})

	record, err := gateway.UpdateProject(context.Background(), "abc", ProjectFields{Title: "New", Description: "d", Featured: true, SortOrder: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.png", record.ImageURL)
}

func TestCreateProjectSendsImagePart(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "shot.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.Equal(t, "png", string(data))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ProjectRecord{ID: "1", ImageURL: "/uploads/x.png"})
	})

	record, err := gateway.CreateProject(context.Background(), ProjectFields{Title: "t", Description: "d"},
		&ImageAttachment{Filename: "shot.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "1", record.ID)
}

func TestGatewayErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"validation", http.StatusBadRequest, `{"error":"title is required","message":"title is required","field":"title"}`, errs.IsValidation},
		{"not found", http.StatusNotFound, `{"message":"project not found"}`, errs.IsNotFound},
		{"remote", http.StatusInternalServerError, `oops`, errs.IsRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, session := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := gateway.DeleteProject(context.Background(), "1")
			assert.True(t, tt.check(err), "got %v", err)
			assert.True(t, session.Authenticated())
		})
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	gateway, session := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"token expired"}`)
	})

	fired := 0
	session.OnAuthError(func(error) { fired++ })

	_, err := gateway.ListProjects(context.Background())
	assert.True(t, errs.IsUnauthorized(err))
	assert.False(t, session.Authenticated())
	assert.Equal(t, 1, fired)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	gateway, err := NewHTTPGateway(server.URL, nil)
	require.NoError(t, err)
	require.NoError(t, gateway.Session().Set("tok"))

	_, err = gateway.ListProjects(context.Background())
	assert.True(t, errs.IsNetwork(err))
	assert.True(t, gateway.Session().Authenticated())
}

func TestLoginStoresToken(t *testing.T) {
	gateway, session := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, r.Header.Get("Authorization"))
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"invalid email or password"}`)
			return
		}
		io.WriteString(w, `{"token":"fresh"}`)
	})
	require.NoError(t, session.Clear())

	err := gateway.Login(context.Background(), "me@example.com", "wrong")
	assert.True(t, errs.IsUnauthorized(err))

	require.NoError(t, gateway.Login(context.Background(), "me@example.com", "secret"))
	assert.Equal(t, "fresh", session.Token())
}

func TestValidateCredential(t *testing.T) {
	gateway, session := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	ok, err := gateway.ValidateCredential(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gateway.ValidateCredential(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, session.Authenticated())
}

func TestResolveImageURL(t *testing.T) {
	gateway, err := NewHTTPGateway("https://api.example.com/", nil)
	require.NoError(t, err)

	assert.Equal(t, "", gateway.ResolveImageURL(""))
	assert.Equal(t, "https://cdn.example.com/a.png", gateway.ResolveImageURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "https://api.example.com/uploads/a.png", gateway.ResolveImageURL("/uploads/a.png"))
	assert.Equal(t, "https://api.example.com/uploads/a.png", gateway.ResolveImageURL("uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", gateway.ResolveImageURL("//cdn.example.com/a.png"))
}

func TestResolveImageURLKeepsBasePath(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	session := NewSession(nil)
	require.NoError(t, session.Set("token"))
	gateway, err := NewHTTPGateway(srv.URL+"/portfolio", session)
	require.NoError(t, err)

	_, err = gateway.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/portfolio/api/projects", requested)

	assert.Equal(t, srv.URL+"/portfolio/uploads/a.png", gateway.ResolveImageURL("/uploads/a.png"))
	assert.Equal(t, srv.URL+"/portfolio/uploads/a.png", gateway.ResolveImageURL("uploads/a.png"))
	assert.Equal(t, srv.URL+"/portfolio/uploads/a.png?v=2", gateway.ResolveImageURL("/uploads/a.png?v=2"))
}

func TestRequestWithoutTokenIsAuthError(t *testing.T) {
	gateway, err := NewHTTPGateway("http://localhost:1", nil)
	require.NoError(t, err)

	_, err = gateway.ListProjects(context.Background())
	assert.True(t, errs.IsUnauthorized(err))
}
