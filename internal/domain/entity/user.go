package entity

import "github.com/google/uuid"

// Plan is the billing plan held by a user, sourced from the external billing
// surface. It decides which check tiers the user may actually use.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// HasTierAccess reports whether the plan covers the given check tier.
func (p Plan) HasTierAccess(tier Tier) bool {
	if !tier.RequiresPremium() {
		return true
	}

	return p == PlanPremium
}

// UserContact carries the delivery endpoints and plan for one user.
// Read-only to the pipeline; maintained by the identity and billing surfaces.
type UserContact struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"` // E.164, empty when no number is on file.
	Plan   Plan      `json:"plan"`
}
