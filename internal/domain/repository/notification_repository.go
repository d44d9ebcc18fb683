package repository

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/errors"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification record is not found.
var ErrNotificationNotFound = errors.New("notification record not found")

// NotificationRepository is the pending-notification queue and audit store.
type NotificationRepository interface {
	// CreateBatch persists new records, normally in pending state.
	CreateBatch(ctx context.Context, records []*entity.NotificationRecord) error

	// ListPending retrieves up to limit pending records for one channel,
	// oldest first.
	ListPending(ctx context.Context, channel entity.Channel, limit int) ([]*entity.NotificationRecord, error)

	// MarkSent transitions a record to sent with the provider's message ID.
	MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string, sentAt time.Time) error

	// MarkFailed transitions a record to failed with the error message and
	// increments its attempt count.
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}
