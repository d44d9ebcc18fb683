package repository

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/errors"

	"github.com/google/uuid"
)

// ErrListingNotFound is returned when a listing is not found.
var ErrListingNotFound = errors.New("listing not found")

// ListingRepository defines the canonical listing store.
type ListingRepository interface {
	// UpsertBatch inserts or refreshes listings keyed by upstream source ID.
	// Existing rows get their mutable fields, last-seen timestamp and active
	// flag refreshed; new rows get first-seen = last-seen = now. Returns the
	// full stored rows, enrichment fields included, for downstream matching.
	UpsertBatch(ctx context.Context, listings []*entity.Listing, now time.Time) ([]*entity.Listing, error)

	// UpdateStabilization writes back one enrichment result.
	UpdateStabilization(ctx context.Context, id uuid.UUID, status entity.StabilizationStatus, probability float64, source string, checkedAt time.Time) error

	// MarkInactiveOlderThan deactivates listings not re-seen since the cutoff.
	// Returns the number of listings swept.
	MarkInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
