package entity

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies a notification delivery channel.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

// NotificationStatus is the delivery state of one notification record.
// Transitions are pending -> sent or pending -> failed; failed records are
// never resurrected, a fresh match creates a fresh record instead.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationRecord is one queued message for one (channel, listing) pair.
// Created in pending state by fanout, drained by the channel dispatchers.
type NotificationRecord struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"user_id"`
	CriterionID uuid.UUID          `json:"criterion_id"`
	ListingID   uuid.UUID          `json:"listing_id"`
	Channel     Channel            `json:"channel"`
	Status      NotificationStatus `json:"status"`
	Recipient   string             `json:"recipient"` // Phone number or email address.
	Subject     string             `json:"subject"`   // Empty for SMS and in-app.
	Body        string             `json:"body"`

	ProviderMessageID string     `json:"provider_message_id"`
	ErrorMessage      string     `json:"error_message"`
	AttemptCount      int        `json:"attempt_count"`
	CreatedAt         time.Time  `json:"created_at"`
	SentAt            *time.Time `json:"sent_at"`
}
