// Package entity contains the core business objects of the project.
package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier is a check-frequency class gating how often a criterion is evaluated.
type Tier string

const (
	Tier15Min Tier = "15min"
	Tier30Min Tier = "30min"
	Tier1Hour Tier = "1hour"
)

// IntervalMinutes returns the fixed check interval for the tier.
// Unknown tiers fall back to the hourly interval.
func (t Tier) IntervalMinutes() int {
	switch t {
	case Tier15Min:
		return 15
	case Tier30Min:
		return 30
	default:
		return 60
	}
}

// RequiresPremium reports whether the tier needs a paid access grant.
func (t Tier) RequiresPremium() bool {
	return t == Tier15Min || t == Tier30Min
}

// Criterion represents a user's saved rental search. It is created and edited
// by the external alert-management surface; the pipeline reads it and only
// ever mutates LastCheckedAt.
type Criterion struct {
	ID             uuid.UUID  `json:"id"`              // The unique identifier for the criterion.
	OwnerID        uuid.UUID  `json:"owner_id"`        // The ID of the user who owns this saved search.
	Name           string     `json:"name"`            // Display name chosen by the user.
	Areas          []string   `json:"areas"`           // Raw neighborhood list as entered.
	MinPrice       *int       `json:"min_price"`       // Lower price bound; nil means unbounded.
	MaxPrice       *int       `json:"max_price"`       // Upper price bound; nil means unbounded.
	MinBeds        *int       `json:"min_beds"`        // Lower bedroom bound; nil means unbounded.
	MaxBeds        *int       `json:"max_beds"`        // Upper bedroom bound; nil means unbounded.
	MinBaths       *float64   `json:"min_baths"`       // Minimum bathroom count; nil means unbounded.
	NoFee          bool       `json:"no_fee"`          // Only accept no-fee listings.
	StabilizedOnly bool       `json:"stabilized_only"` // Only accept likely rent-stabilized listings.
	NotifySMS      bool       `json:"notify_sms"`      // SMS channel toggle.
	NotifyEmail    bool       `json:"notify_email"`    // Email channel toggle.
	NotifyInApp    bool       `json:"notify_in_app"`   // In-app channel toggle.
	Tier           Tier       `json:"tier"`            // Preferred check cadence.
	IsActive       bool       `json:"is_active"`       // Inactive criteria are excluded from batching.
	LastCheckedAt  *time.Time `json:"last_checked_at"` // Advanced only after a successful match-and-notify pass.
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AreaKey returns the criterion's normalized grouping key. An empty key means
// the criterion carries no usable area list and is excluded from batching.
func (c *Criterion) AreaKey() string {
	return NormalizeAreas(c.Areas)
}

// NormalizeAreas canonicalizes an area list into a comparable key: lowercase,
// trimmed, deduplicated, alphabetically sorted and comma-joined. Two lists
// with the same members in any order normalize identically.
func NormalizeAreas(areas []string) string {
	cleaned := make([]string, 0, len(areas))
	seen := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		area = strings.ToLower(strings.TrimSpace(area))
		if area == "" {
			continue
		}
		if _, ok := seen[area]; ok {
			continue
		}
		seen[area] = struct{}{}
		cleaned = append(cleaned, area)
	}
	sort.Strings(cleaned)

	return strings.Join(cleaned, ",")
}
