package service

import "context"

// SMSSender delivers one text message and returns the provider's message ID.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (providerMessageID string, err error)
}
