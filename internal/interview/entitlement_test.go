package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanStart(t *testing.T) {
	tests := []struct {
		name           string
		tier           Tier
		interviewCount int
		want           bool
	}{
		{name: "free with no usage", tier: TierFree, interviewCount: 0, want: true},
		{name: "free with usage", tier: TierFree, interviewCount: 1, want: false},
		{name: "premium with no usage", tier: TierPremium, interviewCount: 0, want: true},
		{name: "premium with usage", tier: TierPremium, interviewCount: 1, want: false},
		{name: "ultimate unlimited", tier: TierUltimate, interviewCount: 5, want: true},
		{name: "ultimate fresh", tier: TierUltimate, interviewCount: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanStart(tt.tier, tt.interviewCount))
		})
	}
}

func TestTierUnlimited(t *testing.T) {
	assert.False(t, TierFree.Unlimited())
	assert.False(t, TierPremium.Unlimited())
	assert.True(t, TierUltimate.Unlimited())
}
