package impl

import "leaseradar/internal/domain/entity"

// StabilizationProbabilityThreshold is the minimum probability at which a
// "probable" enrichment result satisfies a rent-stabilization filter.
const StabilizationProbabilityThreshold = 0.70

// MatchesCriterion re-applies one criterion's exact bounds to a listing.
// Batch bounds are intentionally broader than any single member's, so every
// listing a batch fetch returns must pass through here before it counts as a
// match for a given criterion. All clauses are conjunctive.
func MatchesCriterion(listing *entity.Listing, criterion *entity.Criterion) bool {
	if criterion.MinPrice != nil && listing.Price < *criterion.MinPrice {
		return false
	}
	if criterion.MaxPrice != nil && listing.Price > *criterion.MaxPrice {
		return false
	}
	if criterion.MinBeds != nil && listing.Bedrooms < *criterion.MinBeds {
		return false
	}
	if criterion.MaxBeds != nil && listing.Bedrooms > *criterion.MaxBeds {
		return false
	}
	if criterion.MinBaths != nil && listing.Bathrooms < *criterion.MinBaths {
		return false
	}
	if criterion.NoFee && !listing.NoFee {
		return false
	}
	if criterion.StabilizedOnly && !passesStabilization(listing) {
		return false
	}

	return true
}

// passesStabilization: confirmed always passes, probable passes at or above
// the threshold, everything else (unlikely, unknown, unchecked) is excluded
// this cycle.
func passesStabilization(listing *entity.Listing) bool {
	switch listing.StabilizationStatus {
	case entity.StabilizationConfirmed:
		return true
	case entity.StabilizationProbable:
		return listing.StabilizationProbability >= StabilizationProbabilityThreshold
	default:
		return false
	}
}
