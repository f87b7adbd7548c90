package vault

import "github.com/corsair-labs/bootynet-chain/config"

// Deposit tiers, by whole-token amount.
const (
	TierCommon    uint8 = 1
	TierRare      uint8 = 2
	TierEpic      uint8 = 3
	TierLegendary uint8 = 4
)

// TierOf classifies a deposit amount (in base units) into a tier.
// Bands are inclusive lower bounds on the whole-token amount, so
// fractional remainders below one token never promote a deposit.
func TierOf(amount uint64, p config.Params) uint8 {
	tokens := amount / p.UnitScale()
	switch {
	case tokens >= p.TierLegendaryTokens:
		return TierLegendary
	case tokens >= p.TierEpicTokens:
		return TierEpic
	case tokens >= p.TierRareTokens:
		return TierRare
	default:
		return TierCommon
	}
}
