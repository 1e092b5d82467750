package mailer

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
	"github.com/rs/zerolog"
)

// Mailer sends account emails
type Mailer interface {
	SendVerification(ctx context.Context, to, username, verifyURL string) error
}

// PostmarkMailer sends emails through the Postmark transactional API
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// NewPostmarkMailer creates a Postmark-backed mailer
func NewPostmarkMailer(serverToken, from string) (*PostmarkMailer, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("postmark server token is required")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}

	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}, nil
}

// SendVerification sends the email-verification message
func (m *PostmarkMailer) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:    m.from,
		To:      to,
		Subject: "Verify your Progtrack email",
		Tag:     "email-verification",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWelcome to Progtrack! Confirm your email address by opening the link below:\n\n%s\n\nThe link is valid for 24 hours. If you didn't create an account, you can ignore this email.\n",
			username, verifyURL,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them.
// Used in development when no Postmark token is configured.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a log-only mailer
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendVerification logs the verification link
func (m *LogMailer) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	m.log.Info().
		Str("to", to).
		Str("username", username).
		Str("verify_url", verifyURL).
		Msg("Verification email (log-only mailer)")
	return nil
}

// New returns a Postmark mailer when a server token is configured,
// otherwise a log-only mailer
func New(serverToken, from string, log zerolog.Logger) (Mailer, error) {
	if serverToken == "" {
		log.Warn().Msg("POSTMARK_SERVER_TOKEN not set - verification emails will only be logged")
		return NewLogMailer(log), nil
	}
	return NewPostmarkMailer(serverToken, from)
}
