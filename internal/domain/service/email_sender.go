package service

import "context"

// EmailSender delivers one HTML email and returns the provider's message ID.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (providerMessageID string, err error)
}
