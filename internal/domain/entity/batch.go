package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Batch groups criteria sharing a normalized area key so one upstream query
// can serve all of them. Its bounds are the broadest superset of every
// member's bounds: a listing any member would accept is never rejected by the
// batch query.
type Batch struct {
	ID            uuid.UUID  `json:"id"`
	Hash          string     `json:"hash"`     // Content hash of the canonical bound set; stable across rebuilds.
	AreaKey       string     `json:"area_key"` // Normalized, comma-joined area list shared by all members.
	MinPrice      *int       `json:"min_price"`
	MaxPrice      *int       `json:"max_price"`
	MinBeds       *int       `json:"min_beds"`
	MaxBeds       *int       `json:"max_beds"`
	MinBaths      *float64   `json:"min_baths"`
	NoFee         bool       `json:"no_fee"` // True only when every member requires no-fee.
	MemberCount   int        `json:"member_count"`
	LastFetchedAt *time.Time `json:"last_fetched_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ComputeHash derives the batch's deterministic content hash from its
// canonical bound set. Field order is fixed so the same bounds always hash
// identically regardless of how the batch was assembled.
func (b *Batch) ComputeHash() string {
	canonical := fmt.Sprintf(
		"areas=%s|minPrice=%s|maxPrice=%s|minBeds=%s|maxBeds=%s|minBaths=%s|noFee=%t",
		b.AreaKey,
		canonicalInt(b.MinPrice),
		canonicalInt(b.MaxPrice),
		canonicalInt(b.MinBeds),
		canonicalInt(b.MaxBeds),
		canonicalFloat(b.MinBaths),
		b.NoFee,
	)
	sum := sha256.Sum256([]byte(canonical))

	return hex.EncodeToString(sum[:])
}

func canonicalInt(v *int) string {
	if v == nil {
		return "*"
	}

	return strconv.Itoa(*v)
}

func canonicalFloat(v *float64) string {
	if v == nil {
		return "*"
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// BatchMembership joins one criterion to the batch that covers it.
// Unique per (criterion, batch) pair.
type BatchMembership struct {
	ID          uuid.UUID `json:"id"`
	BatchID     uuid.UUID `json:"batch_id"`
	CriterionID uuid.UUID `json:"criterion_id"`
	CreatedAt   time.Time `json:"created_at"`
}
