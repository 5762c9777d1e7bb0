package domain

import "github.com/shopspring/decimal"

// ResolveUnitPrice returns the unit price for quantity given a product's
// tier list. Tiers are scanned in authored order and the first tier whose
// range contains quantity wins; overlapping ranges resolve by that order
// (a promo tier listed first takes precedence over a broader one below it).
// With no matching tier the base price applies. Quantity is expected to be
// at least 1.
func ResolveUnitPrice(basePrice decimal.Decimal, tiers []PricingTier, quantity int) decimal.Decimal {
	for _, tier := range tiers {
		if quantity < tier.MinQuantity {
			continue
		}
		if tier.MaxQuantity > 0 && quantity > tier.MaxQuantity {
			continue
		}
		return tier.UnitPrice
	}
	return basePrice
}
