package usecase

import (
	"context"

	"leaseradar/internal/domain/entity"
)

// EnrichmentUsecase augments listings with rent-stabilization data from the
// building registry. Strictly best-effort: a failed or timed-out lookup
// leaves the listing unchecked and is retried next cycle; it never fails the
// caller.
type EnrichmentUsecase interface {
	// EnrichListings enriches the given listings in place where needed and
	// returns how many were updated this call.
	EnrichListings(ctx context.Context, listings []*entity.Listing) int
}
