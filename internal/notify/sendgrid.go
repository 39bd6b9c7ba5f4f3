// Package notify talks to the third-party services around the contact form:
// SendGrid for the owner's inbox alert and reCAPTCHA for spam checks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridMailer forwards new contact messages to the site owner. Endpoint
// and HTTPClient are exported so tests can point it at a fake server.
type SendGridMailer struct {
	APIKey     string
	FromEmail  string
	ToEmail    string
	HTTPClient *http.Client
	Endpoint   string
}

func NewSendGridMailer(apiKey, fromEmail, toEmail string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:     strings.TrimSpace(apiKey),
		FromEmail:  strings.TrimSpace(fromEmail),
		ToEmail:    strings.TrimSpace(toEmail),
		Endpoint:   sendGridEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether every setting needed to send is present.
func (m *SendGridMailer) Enabled() bool {
	return m != nil && m.configErr() == nil
}

func (m *SendGridMailer) configErr() error {
	var errs []error
	if m.APIKey == "" {
		errs = append(errs, errors.New("missing SENDGRID_API_KEY"))
	}
	if m.FromEmail == "" {
		errs = append(errs, errors.New("missing NOTIFY_FROM_EMAIL"))
	}
	if m.ToEmail == "" {
		errs = append(errs, errors.New("missing NOTIFY_TO_EMAIL"))
	}
	return errors.Join(errs...)
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailPersonalization struct {
	To         []mailAddress     `json:"to"`
	Subject    string            `json:"subject"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

// mailSendRequest is the v3 mail/send body.
type mailSendRequest struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	ReplyTo          *mailAddress          `json:"reply_to,omitempty"`
	Content          []mailContent         `json:"content"`
}

// contactMail renders msg as a plain text and HTML mail to the owner, with
// reply-to set to the visitor.
func (m *SendGridMailer) contactMail(msg *models.Message) mailSendRequest {
	received := msg.CreatedAt.UTC().Format(time.RFC1123)

	var plain strings.Builder
	fmt.Fprintf(&plain, "From: %s <%s>\n", msg.Name, msg.Email)
	fmt.Fprintf(&plain, "Received: %s\n", received)
	fmt.Fprintf(&plain, "Message id: %s\n\n", msg.ID)
	plain.WriteString(msg.Message)
	plain.WriteString("\n")

	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	rich := fmt.Sprintf(
		"<p><strong>%s</strong> &lt;%s&gt;<br><small>%s</small></p><p>%s</p>",
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), received, body,
	)

	return mailSendRequest{
		Personalizations: []mailPersonalization{{
			To:         []mailAddress{{Email: m.ToEmail}},
			Subject:    "New portfolio message from " + msg.Name,
			CustomArgs: map[string]string{"messageId": msg.ID},
		}},
		From:    mailAddress{Email: m.FromEmail, Name: "Portfolio Contact Form"},
		ReplyTo: &mailAddress{Email: msg.Email, Name: msg.Name},
		Content: []mailContent{
			{Type: "text/plain", Value: plain.String()},
			{Type: "text/html", Value: rich},
		},
	}
}

// SendContactNotification posts one mail per call. There is no retry.
func (m *SendGridMailer) SendContactNotification(ctx context.Context, msg *models.Message) error {
	if m == nil {
		return errors.New("sendgrid mailer not configured")
	}
	if err := m.configErr(); err != nil {
		return err
	}

	payload, err := json.Marshal(m.contactMail(msg))
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	// 202 Accepted is the only success status.
	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid mail send: http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
