package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
)

const defaultResendURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends email through the Resend API.
type Mailer struct {
	apiKey     string
	fromEmail  string
	to         []string
	baseURL    string
	httpClient *http.Client
}

// NewMailerFromConfig builds a Mailer from RESEND_API_KEY, RESEND_FROM_EMAIL
// and CONTACT_TO_EMAIL. RESEND_BASE_URL overrides the API host.
func NewMailerFromConfig(c map[string]string) (*Mailer, error) {
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	fromEmail := config.GetString(c, "RESEND_FROM_EMAIL", "")
	if fromEmail == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_FROM_EMAIL")
	}
	return &Mailer{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		to:         config.GetList(c, "CONTACT_TO_EMAIL"),
		baseURL:    strings.TrimRight(config.GetString(c, "RESEND_BASE_URL", defaultResendURL), "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// SendEmail sends an email using the Resend API. body is sent as HTML.
func (m *Mailer) SendEmail(ctx context.Context, subject, body string, recipients []string, replyTo string) error {
	if len(recipients) == 0 {
		return errs.NewBadRequestError("at least one recipient is required")
	}

	// Build the Resend API payload
	payload := ResendEmailRequest{
		From:    m.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}

	// Marshal payload to JSON
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errs.NewServiceUnavailableError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewExternalServiceError("resend", resp.StatusCode, errorResp.Message)
		}
		return errs.NewExternalServiceError("resend", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}

// Notify emails a contact form submission to the site owner.
func (m *Mailer) Notify(ctx context.Context, msg ContactMessage) error {
	subject := fmt.Sprintf("Portfolio contact from %s", msg.Name)
	body := fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)
	return m.SendEmail(ctx, subject, body, m.to, msg.Email)
}

func (m *Mailer) Name() string {
	return "email"
}
