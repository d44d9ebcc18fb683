package impl

import (
	"testing"

	"leaseradar/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func baseListing() *entity.Listing {
	return &entity.Listing{
		Price:     2500,
		Bedrooms:  2,
		Bathrooms: 1.5,
		NoFee:     true,
	}
}

func TestMatchesCriterion_PriceBounds(t *testing.T) {
	listing := baseListing()

	assert.True(t, MatchesCriterion(listing, &entity.Criterion{MinPrice: intPtr(2000), MaxPrice: intPtr(3000)}))
	assert.True(t, MatchesCriterion(listing, &entity.Criterion{MinPrice: intPtr(2500), MaxPrice: intPtr(2500)}), "bounds are inclusive")
	assert.False(t, MatchesCriterion(listing, &entity.Criterion{MinPrice: intPtr(2600)}))
	assert.False(t, MatchesCriterion(listing, &entity.Criterion{MaxPrice: intPtr(2400)}))
	assert.True(t, MatchesCriterion(listing, &entity.Criterion{}), "nil bounds accept everything")
}

func TestMatchesCriterion_BedsAndBaths(t *testing.T) {
	listing := baseListing()

	assert.False(t, MatchesCriterion(listing, &entity.Criterion{MinBeds: intPtr(3)}))
	assert.False(t, MatchesCriterion(listing, &entity.Criterion{MaxBeds: intPtr(1)}))
	assert.True(t, MatchesCriterion(listing, &entity.Criterion{MinBeds: intPtr(2), MaxBeds: intPtr(2)}))
	assert.False(t, MatchesCriterion(listing, &entity.Criterion{MinBaths: floatPtr(2)}))
	assert.True(t, MatchesCriterion(listing, &entity.Criterion{MinBaths: floatPtr(1.5)}))
}

func TestMatchesCriterion_NoFee(t *testing.T) {
	feeListing := baseListing()
	feeListing.NoFee = false

	assert.False(t, MatchesCriterion(feeListing, &entity.Criterion{NoFee: true}))
	assert.True(t, MatchesCriterion(feeListing, &entity.Criterion{NoFee: false}))
}

func TestMatchesCriterion_StabilizedOnly(t *testing.T) {
	criterion := &entity.Criterion{StabilizedOnly: true}

	confirmed := baseListing()
	confirmed.StabilizationStatus = entity.StabilizationConfirmed
	assert.True(t, MatchesCriterion(confirmed, criterion))

	probableHigh := baseListing()
	probableHigh.StabilizationStatus = entity.StabilizationProbable
	probableHigh.StabilizationProbability = StabilizationProbabilityThreshold
	assert.True(t, MatchesCriterion(probableHigh, criterion), "threshold itself passes")

	probableLow := baseListing()
	probableLow.StabilizationStatus = entity.StabilizationProbable
	probableLow.StabilizationProbability = 0.69
	assert.False(t, MatchesCriterion(probableLow, criterion))

	unlikely := baseListing()
	unlikely.StabilizationStatus = entity.StabilizationUnlikely
	unlikely.StabilizationProbability = 0.99
	assert.False(t, MatchesCriterion(unlikely, criterion), "status gates before probability")

	unchecked := baseListing()
	assert.False(t, MatchesCriterion(unchecked, criterion), "never-checked listings are excluded")
}
