package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateComparatorEquality(t *testing.T) {
	var c StateComparator

	tests := []struct {
		name          string
		businessState string
		partyState    string
		want          bool
	}{
		{"identical states", "Karnataka", "Karnataka", true},
		{"case insensitive", "karnataka", "KARNATAKA", true},
		{"whitespace trimmed", "  Karnataka ", "Karnataka", true},
		{"different states", "Karnataka", "Maharashtra", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsIntraState(tt.businessState, tt.partyState))
		})
	}
}

func TestStateComparatorUnknownPolicy(t *testing.T) {
	t.Run("default treats missing state as intra-state", func(t *testing.T) {
		var c StateComparator
		assert.True(t, c.IsIntraState("", "Karnataka"))
		assert.True(t, c.IsIntraState("Karnataka", ""))
		assert.True(t, c.IsIntraState("", ""))
		assert.True(t, c.IsIntraState("   ", "Karnataka"))
	})

	t.Run("inter-state policy flips the default", func(t *testing.T) {
		c := StateComparator{Unknown: UnknownIsInterState}
		assert.False(t, c.IsIntraState("", "Karnataka"))
		assert.False(t, c.IsIntraState("Karnataka", ""))
		// Known states still use the equality rule.
		assert.True(t, c.IsIntraState("Karnataka", "Karnataka"))
	})
}
