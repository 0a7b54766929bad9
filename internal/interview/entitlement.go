package interview

// Tier is the subscription level gating interview quota. Free and premium
// share a one-session lifetime cap; ultimate is unlimited.
type Tier string

const (
	TierFree     Tier = "free"
	TierPremium  Tier = "premium"
	TierUltimate Tier = "ultimate"
)

// Unlimited reports whether the tier has no interview quota.
func (t Tier) Unlimited() bool {
	return t == TierUltimate
}

// CanStart reports whether a new session may begin for the given tier and
// previously recorded usage. Pure function; it must be evaluated before any
// usage increment or model call.
func CanStart(tier Tier, interviewCount int) bool {
	if tier.Unlimited() {
		return true
	}
	return interviewCount < 1
}
