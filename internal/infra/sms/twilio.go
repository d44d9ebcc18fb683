// Package sms implements the Twilio-backed SMS sender.
package sms

import (
	"context"

	"leaseradar/config"
	"leaseradar/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

// New creates the Twilio SMS sender from config. Returns nil when SMS is not
// configured so the dispatcher can skip the channel.
func New(cfg *config.SMSConfig) service.SMSSender {
	if cfg == nil {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &twilioSender{
		client: client,
		from:   cfg.From,
	}
}

// Send delivers one text message and returns Twilio's message SID.
func (s *twilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	message, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", errors.Wrap(err, "twilio create message failed")
	}
	if message.Sid == nil {
		return "", errors.New("twilio returned no message sid")
	}

	return *message.Sid, nil
}
