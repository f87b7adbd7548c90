package config

// Params holds protocol constants. These are consensus rules: every
// node processing the same operations must use identical values.
type Params struct {
	// Decimals is the reward token's decimal scale; amounts are
	// denominated in base units of 10^-Decimals tokens.
	Decimals uint8

	// MinDepositTokens is the deposit floor in whole tokens.
	MinDepositTokens uint64

	// Tier bands, lower bounds in whole tokens. Inclusive; evaluated
	// from highest to lowest.
	TierRareTokens      uint64 // tier 2
	TierEpicTokens      uint64 // tier 3
	TierLegendaryTokens uint64 // tier 4
}

// DefaultParams returns the protocol parameters.
func DefaultParams() Params {
	return Params{
		Decimals:            6,
		MinDepositTokens:    100,
		TierRareTokens:      1_000,
		TierEpicTokens:      10_000,
		TierLegendaryTokens: 100_000,
	}
}

// UnitScale returns 10^Decimals, the number of base units per token.
func (p Params) UnitScale() uint64 {
	scale := uint64(1)
	for i := uint8(0); i < p.Decimals; i++ {
		scale *= 10
	}
	return scale
}

// MinDepositAmount returns the deposit floor in base units.
func (p Params) MinDepositAmount() uint64 {
	return p.MinDepositTokens * p.UnitScale()
}
