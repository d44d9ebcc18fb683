package repository

import (
	"context"

	"github.com/google/uuid"
)

// SeenRepository tracks which listings were already surfaced per
// (user, criterion). Dedup scope is the pair, never the listing globally.
type SeenRepository interface {
	// FilterNew returns the subset of listingIDs with no seen record for the
	// (user, criterion) pair, preserving input order.
	FilterNew(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) ([]uuid.UUID, error)

	// MarkSeen inserts seen records for the given listings. Idempotent:
	// records that already exist are skipped, never an error.
	MarkSeen(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) error
}
