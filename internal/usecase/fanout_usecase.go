package usecase

import (
	"context"

	"leaseradar/internal/domain/entity"

	"github.com/google/uuid"
)

// FanoutOutcome reports what fanout created for one criterion. The
// orchestrator inspects it to decide whether to mark listings seen and then
// advance the criterion's last-checked timestamp, in that order.
type FanoutOutcome struct {
	RecordsCreated int
	Channels       []entity.Channel
	ListingIDs     []uuid.UUID // Listings covered by the created records.

	// SkippedNoChannels is set when no enabled channel survived prerequisite
	// checks; nothing was created and the criterion must not advance.
	SkippedNoChannels bool
}

// FanoutUsecase expands "new listings for a criterion" into pending
// notification records, one per enabled channel per listing.
type FanoutUsecase interface {
	NotifyCriterion(ctx context.Context, criterion *entity.Criterion, contact *entity.UserContact, listings []*entity.Listing) (*FanoutOutcome, error)
}
