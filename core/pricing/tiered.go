// Package pricing - Tiered pricing
// Progressive billing: each unit is charged at the rate of the band it falls in.
package pricing

import (
	"math"

	"cloudcart/core/rates"
)

// TierCharge is the portion of a quantity billed in one tier
type TierCharge struct {
	UpToGB *float64 `json:"upToGB"`
	GB     float64  `json:"gb"`
	PerGB  float64  `json:"perGB"`
	Cost   float64  `json:"cost"`
}

// TieredCost computes the marginal cost of quantity across tiers.
// Tiers are walked in order; a nil upper bound absorbs the remainder.
func TieredCost(quantity float64, tiers []rates.EgressTier) (float64, []TierCharge) {
	if quantity <= 0 || len(tiers) == 0 {
		return 0, nil
	}

	var totalCost float64
	var charges []TierCharge
	remaining := quantity
	previousLimit := 0.0

	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}

		tierLimit := tier.Limit()
		usageInTier := math.Min(remaining, tierLimit-previousLimit)
		cost := usageInTier * tier.PerGB

		totalCost += cost
		remaining -= usageInTier
		previousLimit = tierLimit

		charges = append(charges, TierCharge{
			UpToGB: tier.UpToGB,
			GB:     usageInTier,
			PerGB:  tier.PerGB,
			Cost:   cost,
		})
	}

	return totalCost, charges
}
