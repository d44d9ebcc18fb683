package repository

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/errors"

	"github.com/google/uuid"
)

// ErrBatchNotFound is returned when a batch is not found.
var ErrBatchNotFound = errors.New("batch not found")

// BatchRepository defines the persistence operations used by batch
// reconciliation and the fetch loop.
type BatchRepository interface {
	// ListAll retrieves every stored batch.
	ListAll(ctx context.Context) ([]*entity.Batch, error)

	// UpsertByHash inserts the batch or, when a batch with the same content
	// hash exists, refreshes its member count and bounds. The entity is
	// updated in place with the stored row's ID.
	UpsertByHash(ctx context.Context, batch *entity.Batch) error

	// ReplaceMemberships swaps the full membership set of one batch.
	ReplaceMemberships(ctx context.Context, batchID uuid.UUID, criterionIDs []uuid.UUID) error

	// DeleteWhereHashNotIn removes batches (and their memberships) whose hash
	// is absent from the given set. An empty set purges everything.
	DeleteWhereHashNotIn(ctx context.Context, hashes []string) error

	// UpdateLastFetched records a successful upstream fetch for the batch.
	UpdateLastFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error
}
