package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeenRecord marks that a listing has already been surfaced to a user for one
// specific criterion. Existence means "do not notify again for this
// criterion"; the same listing can still be new for other criteria or users.
// Insert-only; duplicate inserts are a no-op.
type SeenRecord struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CriterionID uuid.UUID `json:"criterion_id"`
	ListingID   uuid.UUID `json:"listing_id"`
	CreatedAt   time.Time `json:"created_at"`
}
