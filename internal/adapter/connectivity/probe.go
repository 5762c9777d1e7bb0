package connectivity

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Probe tracks reachability of the shop API with a periodic health check.
// The flag is a display hint surfaced in cart snapshots; nothing in the core
// gates on it.
type Probe struct {
	url      string
	client   *http.Client
	interval time.Duration
	online   atomic.Bool
}

func NewProbe(baseURL string, client *http.Client, interval time.Duration) *Probe {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	p := &Probe{
		url:      strings.TrimRight(baseURL, "/") + "/health",
		client:   client,
		interval: interval,
	}
	p.online.Store(true)
	return p
}

func (p *Probe) Online() bool {
	return p.online.Load()
}

// Run blocks until ctx is done, refreshing the flag every interval.
func (p *Probe) Run(ctx context.Context) {
	p.check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

func (p *Probe) check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.online.Store(false)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.online.Store(false)
		return
	}
	resp.Body.Close()
	p.online.Store(resp.StatusCode == http.StatusOK)
}
