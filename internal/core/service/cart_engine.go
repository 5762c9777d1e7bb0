package service

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-register/internal/core/domain"
	"github.com/rl1809/pos-register/internal/port"
)

// ValidationOutcome reports how a ValidateCart call ended. Validation never
// returns an error: a failed recalculation leaves optimistic pricing in
// place and the register keeps working.
type ValidationOutcome int

const (
	// ValidationSkipped: the cart was empty, no request was issued.
	ValidationSkipped ValidationOutcome = iota
	// ValidationApplied: the server result was merged into the cart.
	ValidationApplied
	// ValidationFailed: the request failed; optimistic pricing stands.
	ValidationFailed
	// ValidationSuperseded: the cart changed while the request was in
	// flight and the stale result was discarded.
	ValidationSuperseded
)

func (o ValidationOutcome) String() string {
	switch o {
	case ValidationSkipped:
		return "skipped"
	case ValidationApplied:
		return "applied"
	case ValidationFailed:
		return "failed"
	case ValidationSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// CartSnapshot is the read view handed to consumers. Mutating it has no
// effect on the engine.
type CartSnapshot struct {
	Lines      []domain.CartLine        `json:"lines"`
	Customer   *domain.Customer         `json:"customer,omitempty"`
	Validation *domain.ValidationResult `json:"validation,omitempty"`
	Total      decimal.Decimal          `json:"total"`
	ItemCount  int                      `json:"item_count"`
	Validating bool                     `json:"validating"`
	Online     bool                     `json:"online"`
}

// CartEngine owns the line items and customer of one register cart. Totals
// are computed optimistically from catalog tier data until ValidateCart
// merges in the server's authoritative recalculation; any structural
// mutation bumps the cart revision and discards that result, so an
// authoritative total never outlives the lines it priced.
type CartEngine struct {
	pricing      port.PricingClient
	connectivity port.ConnectivityObserver

	mu         sync.Mutex
	lines      []domain.CartLine
	customer   *domain.Customer
	result     *domain.ValidationResult
	validating bool
	revision   uint64
}

// NewCartEngine builds an empty cart. connectivity may be nil.
func NewCartEngine(pricing port.PricingClient, connectivity port.ConnectivityObserver) *CartEngine {
	return &CartEngine{pricing: pricing, connectivity: connectivity}
}

// markDirty must be called with the lock held.
func (e *CartEngine) markDirty() {
	e.revision++
	e.result = nil
}

// AddItem accumulates quantity into the existing line for product, or
// appends a new line. Quantities below 1 default to 1.
func (e *CartEngine) AddItem(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == product.ID {
			e.lines[i].Quantity += quantity
			e.markDirty()
			return
		}
	}
	e.lines = append(e.lines, domain.CartLine{Product: product, Quantity: quantity})
	e.markDirty()
}

// RemoveItem deletes the line for productID if present.
func (e *CartEngine) RemoveItem(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			break
		}
	}
	e.markDirty()
}

// UpdateQuantity replaces the quantity of the line for productID. A quantity
// of zero or less removes the line; a cart never holds a zero-quantity line.
func (e *CartEngine) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(productID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines[i].Quantity = quantity
			break
		}
	}
	e.markDirty()
}

// SetCustomer associates the cart with a customer, or clears the
// association when customer is nil. The customer has no bearing on unit
// prices, so the authoritative result survives.
func (e *CartEngine) SetCustomer(customer *domain.Customer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customer = customer
}

// SetItems bulk-replaces the cart lines, e.g. when restoring a suspended
// cart. Lines with non-positive quantities are dropped.
func (e *CartEngine) SetItems(lines []domain.CartLine) {
	replacement := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			replacement = append(replacement, line)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = replacement
	e.markDirty()
}

// ClearCart empties the cart and drops the customer association.
func (e *CartEngine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.customer = nil
	e.markDirty()
}

// Total returns the server subtotal verbatim when an authoritative result is
// present, otherwise the optimistic sum of tier-resolved line prices.
func (e *CartEngine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLocked()
}

// totalLocked must be called with the lock held.
func (e *CartEngine) totalLocked() decimal.Decimal {
	if e.result != nil {
		return e.result.Subtotal
	}
	total := decimal.Zero
	for _, line := range e.lines {
		unit := domain.ResolveUnitPrice(line.Product.BasePrice, line.Product.Tiers, line.Quantity)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount returns the summed quantity across all lines.
func (e *CartEngine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.itemCountLocked()
}

func (e *CartEngine) itemCountLocked() int {
	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// Snapshot returns the current read view of the cart.
func (e *CartEngine) Snapshot() CartSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make([]domain.CartLine, len(e.lines))
	copy(lines, e.lines)

	snap := CartSnapshot{
		Lines:      lines,
		Customer:   e.customer,
		Validation: e.result,
		Total:      e.totalLocked(),
		ItemCount:  e.itemCountLocked(),
		Validating: e.validating,
		Online:     true,
	}
	if e.connectivity != nil {
		snap.Online = e.connectivity.Online()
	}
	return snap
}

// ValidateCart issues one authoritative recalculation for the current lines
// and merges the result back in. The revision captured at issue time fences
// the response: if any mutation lands while the request is in flight, the
// response is discarded as superseded instead of overwriting newer state.
func (e *CartEngine) ValidateCart(ctx context.Context) ValidationOutcome {
	e.mu.Lock()
	if len(e.lines) == 0 {
		e.mu.Unlock()
		return ValidationSkipped
	}

	issued := e.revision
	e.validating = true
	req := domain.RecalcRequest{Items: make([]domain.RecalcItem, 0, len(e.lines))}
	for _, line := range e.lines {
		req.Items = append(req.Items, domain.RecalcItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}
	if e.connectivity != nil && !e.connectivity.Online() {
		log.Printf("cart: validating while offline")
	}
	e.mu.Unlock()

	result, err := e.pricing.Recalculate(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.validating = false

	if err != nil {
		log.Printf("cart: recalculation failed: %v", err)
		return ValidationFailed
	}
	if e.revision != issued {
		return ValidationSuperseded
	}

	e.applyResult(result)
	return ValidationApplied
}

// applyResult must be called with the lock held. Lines missing from the
// response keep their optimistic fields; partial responses never delete
// local lines.
func (e *CartEngine) applyResult(result *domain.ValidationResult) {
	byProduct := make(map[string]domain.LineResult, len(result.Items))
	for _, item := range result.Items {
		byProduct[item.ProductID] = item
	}

	for i := range e.lines {
		item, ok := byProduct[e.lines[i].Product.ID]
		if !ok {
			continue
		}
		unit := item.UnitPrice
		subtotal := item.TotalAmount
		e.lines[i].ServerUnitPrice = &unit
		e.lines[i].TierLabel = item.TierName
		e.lines[i].ServerSubtotal = &subtotal
	}
	e.result = result
}
