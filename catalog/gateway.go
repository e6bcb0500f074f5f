package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio/errs"
)

// Gateway is the boundary to the remote catalog service.
type Gateway interface {
	ListProjects(ctx context.Context) ([]ProjectRecord, error)
	CreateProject(ctx context.Context, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error)
	// UpdateProject sends no image part when image is nil, so the stored
	// image is kept.
	UpdateProject(ctx context.Context, id string, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error)
	DeleteProject(ctx context.Context, id string) error
	ValidateCredential(ctx context.Context, token string) (bool, error)
}

// HTTPGateway talks to the portfolio REST API.
type HTTPGateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    *Session
	logger     zerolog.Logger
}

type GatewayOption func(*HTTPGateway)

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPGateway) {
		g.httpClient = client
	}
}

func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *HTTPGateway) {
		g.logger = logger
	}
}

// NewHTTPGateway creates a gateway rooted at baseURL, e.g.
// "http://localhost:8080".
func NewHTTPGateway(baseURL string, session *Session, opts ...GatewayOption) (*HTTPGateway, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if session == nil {
		session = NewSession(nil)
	}
	g := &HTTPGateway{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *HTTPGateway) Session() *Session {
	return g.session
}

// ResolveImageURL returns raw unchanged when it is absolute and prefixes
// it with the base URL, path included, otherwise.
func (g *HTTPGateway) ResolveImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	if ref.Host != "" {
		ref.Scheme = g.baseURL.Scheme
		return ref.String()
	}
	resolved := g.baseURL.JoinPath(strings.TrimPrefix(ref.Path, "/"))
	resolved.RawQuery = ref.RawQuery
	resolved.Fragment = ref.Fragment
	return resolved.String()
}

func (g *HTTPGateway) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	var records []ProjectRecord
	if err := g.doJSON(ctx, http.MethodGet, "api/projects", nil, true, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *HTTPGateway) CreateProject(ctx context.Context, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error) {
	var record ProjectRecord
	err := g.doMultipart(ctx, http.MethodPost, "api/projects", fields, image, &record)
	return record, err
}

func (g *HTTPGateway) UpdateProject(ctx context.Context, id string, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error) {
	var record ProjectRecord
	err := g.doMultipart(ctx, http.MethodPatch, "api/projects/"+url.PathEscape(id), fields, image, &record)
	return record, err
}

func (g *HTTPGateway) DeleteProject(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "api/projects/"+url.PathEscape(id), nil, true, nil)
}

// ValidateCredential reports whether token is accepted. A rejected token
// is not an error and does not touch the session.
func (g *HTTPGateway) ValidateCredential(ctx context.Context, token string) (bool, error) {
	req, err := g.newRequest(ctx, http.MethodPost, "api/auth/validate", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false, errs.NewNetworkError("POST /api/auth/validate", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, errs.FromStatus(resp.StatusCode, "", "")
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login exchanges credentials for a token and stores it in the session.
func (g *HTTPGateway) Login(ctx context.Context, email, password string) error {
	return g.authenticate(ctx, "api/auth/login", email, password)
}

// Signup creates an admin account and stores the returned token.
func (g *HTTPGateway) Signup(ctx context.Context, email, password string) error {
	return g.authenticate(ctx, "api/auth/signup", email, password)
}

func (g *HTTPGateway) authenticate(ctx context.Context, path, email, password string) error {
	var resp tokenResponse
	if err := g.doJSON(ctx, http.MethodPost, path, credentials{email, password}, false, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return errs.FromStatus(http.StatusBadGateway, "no token in response", "")
	}
	return g.session.Set(resp.Token)
}

// Logout forgets the stored credential.
func (g *HTTPGateway) Logout() error {
	return g.session.Clear()
}

func (g *HTTPGateway) ListAdmins(ctx context.Context) ([]AdminRecord, error) {
	var admins []AdminRecord
	if err := g.doJSON(ctx, http.MethodGet, "api/auth/admins", nil, true, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (g *HTTPGateway) CreateAdmin(ctx context.Context, email, password string) (AdminRecord, error) {
	var admin AdminRecord
	err := g.doJSON(ctx, http.MethodPost, "api/auth/admins", credentials{email, password}, true, &admin)
	return admin, err
}

func (g *HTTPGateway) UpdateAdmin(ctx context.Context, id string, update AdminUpdate) (AdminRecord, error) {
	var admin AdminRecord
	err := g.doJSON(ctx, http.MethodPatch, "api/auth/admins/"+url.PathEscape(id), update, true, &admin)
	return admin, err
}

func (g *HTTPGateway) DeleteAdmin(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "api/auth/admins/"+url.PathEscape(id), nil, true, nil)
}

func (g *HTTPGateway) ListTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := g.doJSON(ctx, http.MethodGet, "api/tags", nil, false, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (g *HTTPGateway) SendContact(ctx context.Context, form ContactForm) error {
	return g.doJSON(ctx, http.MethodPost, "api/contact", form, false, nil)
}

func (g *HTTPGateway) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	err := g.doJSON(ctx, http.MethodGet, "api/health", nil, false, &status)
	return status, err
}

func (g *HTTPGateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	target := g.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (g *HTTPGateway) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := g.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return g.do(req, auth, out)
}

func (g *HTTPGateway) doMultipart(ctx context.Context, method, path string, fields ProjectFields, image *ImageAttachment, out any) error {
	body, contentType, err := encodeProjectForm(fields, image)
	if err != nil {
		return err
	}
	req, err := g.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return g.do(req, true, out)
}

// encodeProjectForm writes every text field and, only when image is
// non-nil, one "image" file part.
func encodeProjectForm(fields ProjectFields, image *ImageAttachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, kv := range fields.formValues() {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("writing %s: %w", kv[0], err)
		}
	}

	if image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
		contentType := image.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(image.Data)
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("writing image part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (g *HTTPGateway) do(req *http.Request, auth bool, out any) error {
	op := req.Method + " " + req.URL.Path
	if auth {
		token := g.session.Token()
		if token == "" {
			err := errs.NewAuthError("not logged in")
			g.session.HandleAuthError(err)
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Debug().Err(err).Str("op", op).Msg("request failed")
		return errs.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	g.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewNetworkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body errorBody
		_ = json.Unmarshal(data, &body)
		message := body.Message
		if message == "" {
			message = body.Error
		}
		clientErr := errs.FromStatus(resp.StatusCode, message, body.Field)
		if auth && errs.IsUnauthorized(clientErr) {
			g.session.HandleAuthError(clientErr)
		}
		return clientErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.FromStatus(resp.StatusCode, fmt.Sprintf("decoding %s response: %v", op, err), "")
	}
	return nil
}
