package domain

import "github.com/shopspring/decimal"

// PricingTier maps a quantity range to a unit price. MaxQuantity == 0 means
// the range has no upper bound. Tiers keep the order the catalog authored
// them in; resolution depends on that order.
type PricingTier struct {
	Label       string          `json:"label"`
	MinQuantity int             `json:"min_quantity"`
	MaxQuantity int             `json:"max_quantity,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Product is the catalog view of a sellable item, carrying everything the
// register needs to price a line without the server.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	BasePrice decimal.Decimal `json:"base_price"`
	Tiers     []PricingTier   `json:"price_tiers,omitempty"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}
