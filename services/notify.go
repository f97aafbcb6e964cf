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

	"github.com/google/uuid"
	"github.com/mosaic-folio/backend/config"
	"github.com/mosaic-folio/backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// SubmissionNotice describes a freshly received submission.
type SubmissionNotice struct {
	Submission  models.Submission
	GitUsername string
}

// Notifier tells moderators about new submissions.
type Notifier interface {
	SubmissionReceived(ctx context.Context, notice SubmissionNotice) error
}

type noopNotifier struct{}

func (noopNotifier) SubmissionReceived(context.Context, SubmissionNotice) error {
	return nil
}

// NewNotifier returns a Resend mail notifier when RESEND_API_KEY,
// RESEND_FROM_EMAIL and MODERATOR_EMAILS are configured, and a no-op otherwise.
func NewNotifier(cfg map[string]string) Notifier {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	fromEmail := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	recipients := config.GetStringSlice(cfg, "MODERATOR_EMAILS")
	if apiKey == "" || fromEmail == "" || len(recipients) == 0 {
		log.Info().Msg("Moderator notifications disabled")
		return noopNotifier{}
	}

	return &ResendNotifier{
		APIKey:     apiKey,
		From:       fromEmail,
		Recipients: recipients,
		BaseURL:    config.GetString(cfg, "PUBLIC_BASE_URL", ""),
		Endpoint:   resendEndpoint,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendNotifier mails moderators through the Resend API.
type ResendNotifier struct {
	APIKey     string
	From       string
	Recipients []string
	BaseURL    string
	Endpoint   string
	Client     *http.Client
}

func (n *ResendNotifier) SubmissionReceived(ctx context.Context, notice SubmissionNotice) error {
	payload := ResendEmailRequest{
		From:    n.From,
		To:      n.Recipients,
		Subject: fmt.Sprintf("New project to validate: %s", notice.Submission.Title),
		Html:    n.renderBody(notice),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.APIKey)
	req.Header.Set("Content-Type", "application/json")
	// retried sends of the same submission must not mail twice
	req.Header.Set("Idempotency-Key", uuid.NewSHA1(uuid.NameSpaceURL,
		[]byte(fmt.Sprintf("submission/%d", notice.Submission.ID))).String())

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Uint("submissionId", notice.Submission.ID).Msg("Moderators notified")
	}

	return nil
}

func (n *ResendNotifier) renderBody(notice SubmissionNotice) string {
	s := notice.Submission

	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>%s</strong> by %s is waiting for validation.</p>",
		html.EscapeString(s.Title), html.EscapeString(notice.GitUsername))
	fmt.Fprintf(&b, `<p>Repository: <a href="%[1]s">%[1]s</a><br>Demo: <a href="%[2]s">%[2]s</a></p>`,
		html.EscapeString(s.Github), html.EscapeString(s.Demolink))
	if link := BuildAdminURL(n.BaseURL); link != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Open the moderation page</a></p>`, html.EscapeString(link))
	}
	return b.String()
}

// BuildAdminURL returns the moderation page under baseURL, or "" when unset.
func BuildAdminURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/admin"
}
