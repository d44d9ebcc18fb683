package entity

import (
	"time"

	"github.com/google/uuid"
)

// StabilizationStatus is the derived rent-stabilization likelihood for a
// listing's building. Empty string means the listing has never been checked.
type StabilizationStatus string

const (
	StabilizationConfirmed StabilizationStatus = "confirmed"
	StabilizationProbable  StabilizationStatus = "probable"
	StabilizationUnlikely  StabilizationStatus = "unlikely"
	StabilizationUnknown   StabilizationStatus = "unknown"
)

// Listing is the canonical record for one upstream rental listing, keyed by
// the provider's listing ID. Only the listing store mutates it.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	SourceID     string    `json:"source_id"` // Upstream provider's listing ID, unique.
	Price        int       `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	NoFee        bool      `json:"no_fee"`
	Address      string    `json:"address"`
	Neighborhood string    `json:"neighborhood"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	URL          string    `json:"url"`

	StabilizationStatus      StabilizationStatus `json:"stabilization_status"`
	StabilizationProbability float64             `json:"stabilization_probability"` // In [0,1].
	StabilizationSource      string              `json:"stabilization_source"`
	StabilizationCheckedAt   *time.Time          `json:"stabilization_checked_at"`

	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	IsActive    bool      `json:"is_active"`
}

// NeedsStabilizationCheck reports whether the listing's enrichment data is
// missing or older than the recheck window.
func (l *Listing) NeedsStabilizationCheck(now time.Time, recheckAfter time.Duration) bool {
	if l.StabilizationCheckedAt == nil {
		return true
	}

	return now.Sub(*l.StabilizationCheckedAt) > recheckAfter
}
