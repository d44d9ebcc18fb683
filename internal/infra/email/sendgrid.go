// Package email implements the SendGrid-backed email sender.
package email

import (
	"context"

	"leaseradar/config"
	"leaseradar/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// New creates the SendGrid email sender from config. Returns nil when email
// is not configured so the dispatcher can skip the channel.
func New(cfg *config.EmailConfig) service.EmailSender {
	if cfg == nil {
		return nil
	}

	return &sendgridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

// Send delivers one HTML email and returns SendGrid's message ID.
func (s *sendgridSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), "", htmlBody)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", errors.Wrap(err, "sendgrid send failed")
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", errors.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}

	return "", nil
}
