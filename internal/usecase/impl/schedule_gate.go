package impl

import (
	"time"

	"leaseradar/internal/domain/entity"
)

// ScheduleGate decides whether a criterion is due for a check. Decisions are
// two-step: first resolve the effective tier from the preferred tier and the
// owner's plan, then evaluate the window and elapsed rules against that tier.
// Both steps are pure so each transition is testable in isolation.
type ScheduleGate struct{}

// NewScheduleGate creates the schedule gate.
func NewScheduleGate() *ScheduleGate {
	return &ScheduleGate{}
}

// ResolveEffectiveTier returns the tier the criterion is actually checked
// under. A preferred tier that needs a paid grant the owner's plan does not
// hold falls back to the hourly free tier instead of skipping the criterion.
func (g *ScheduleGate) ResolveEffectiveTier(criterion *entity.Criterion, plan entity.Plan) entity.Tier {
	tier := criterion.Tier
	if tier == "" {
		tier = entity.Tier1Hour
	}
	if plan.HasTierAccess(tier) {
		return tier
	}

	return entity.Tier1Hour
}

// ShouldCheck reports whether the criterion is due at now under the given
// effective tier. True iff now's minute-of-hour is an exact multiple of the
// tier interval (every subscriber of a tier fires on the same shared
// boundaries, which is what lets them share one batch fetch per window) and
// the criterion has not already been checked inside the current window.
func (g *ScheduleGate) ShouldCheck(criterion *entity.Criterion, tier entity.Tier, now time.Time) bool {
	interval := tier.IntervalMinutes()
	if now.Minute()%interval != 0 {
		return false
	}
	if criterion.LastCheckedAt == nil {
		return true
	}

	// The elapsed comparison works on minute-truncated timestamps: cycles
	// stamp lastChecked seconds into the window, and a raw comparison would
	// then fall just short at the next boundary and skip it.
	elapsed := now.Truncate(time.Minute).Sub(criterion.LastCheckedAt.Truncate(time.Minute))

	return elapsed >= time.Duration(interval)*time.Minute
}
