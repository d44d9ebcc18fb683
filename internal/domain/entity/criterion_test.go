package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAreas(t *testing.T) {
	tests := []struct {
		name     string
		areas    []string
		expected string
	}{
		{
			name:     "lowercases and trims",
			areas:    []string{"  Astoria ", "GREENPOINT"},
			expected: "astoria,greenpoint",
		},
		{
			name:     "sorts alphabetically",
			areas:    []string{"williamsburg", "astoria", "bushwick"},
			expected: "astoria,bushwick,williamsburg",
		},
		{
			name:     "deduplicates after normalization",
			areas:    []string{"Astoria", "astoria ", "ASTORIA"},
			expected: "astoria",
		},
		{
			name:     "drops empty entries",
			areas:    []string{"", "  ", "ridgewood"},
			expected: "ridgewood",
		},
		{
			name:     "empty list yields empty key",
			areas:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAreas(tt.areas))
		})
	}
}

func TestNormalizeAreas_OrderIndependent(t *testing.T) {
	a := NormalizeAreas([]string{"Astoria", "Greenpoint", "Bushwick"})
	b := NormalizeAreas([]string{"bushwick", " greenpoint", "ASTORIA"})

	assert.Equal(t, a, b)
}

func TestTier_IntervalMinutes(t *testing.T) {
	assert.Equal(t, 15, Tier15Min.IntervalMinutes())
	assert.Equal(t, 30, Tier30Min.IntervalMinutes())
	assert.Equal(t, 60, Tier1Hour.IntervalMinutes())
	assert.Equal(t, 60, Tier("bogus").IntervalMinutes())
}

func TestPlan_HasTierAccess(t *testing.T) {
	assert.True(t, PlanFree.HasTierAccess(Tier1Hour))
	assert.False(t, PlanFree.HasTierAccess(Tier30Min))
	assert.False(t, PlanFree.HasTierAccess(Tier15Min))
	assert.True(t, PlanPremium.HasTierAccess(Tier15Min))
	assert.True(t, PlanPremium.HasTierAccess(Tier1Hour))
}
