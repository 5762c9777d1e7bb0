package port

import (
	"context"

	"github.com/rl1809/pos-register/internal/core/domain"
)

// PricingClient calls the server-side cart recalculation endpoint. Server
// pricing is authoritative; this core never reimplements it.
type PricingClient interface {
	Recalculate(ctx context.Context, req domain.RecalcRequest) (*domain.ValidationResult, error)
}

// ConnectivityObserver reports the current online/offline status. It is a
// display hint only; no operation is gated on it.
type ConnectivityObserver interface {
	Online() bool
}
