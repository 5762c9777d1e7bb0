package domain

import "github.com/shopspring/decimal"

// CartLine is one line item of a register cart. The Server* fields are
// annotations from the last authoritative recalculation; they are only
// meaningful while the cart has not been mutated since.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes,omitempty"`

	ServerUnitPrice *decimal.Decimal `json:"server_unit_price,omitempty"`
	TierLabel       string           `json:"tier_label,omitempty"`
	ServerSubtotal  *decimal.Decimal `json:"server_subtotal,omitempty"`
}

// LineResult is the server's verdict for one cart line. IsAvailable and
// AvailableQty are informational passthrough; availability is enforced by
// the server at order time, not here.
type LineResult struct {
	ProductID    string          `json:"product_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TierName     string          `json:"tier_name,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	IsAvailable  bool            `json:"is_available"`
	AvailableQty int             `json:"available_qty"`
}

// ValidationResult is the authoritative recalculation of a whole cart. It is
// a value: replaced or discarded wholesale, never patched.
type ValidationResult struct {
	Items         []LineResult     `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	TotalDiscount *decimal.Decimal `json:"total_discount,omitempty"`
}

// RecalcItem and RecalcRequest form the outgoing recalculation payload.
type RecalcItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RecalcRequest struct {
	Items []RecalcItem `json:"items"`
}
