package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/rl1809/pos-register/internal/core/domain"
	"github.com/rl1809/pos-register/internal/core/service"
)

// Client serves the list screens: cached, read-through GETs against the shop
// API. A cache miss falls through to the network and the response is cached
// for next time; concurrent misses on the same key share one fetch.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *service.RequestCache
	group   singleflight.Group
}

func NewClient(baseURL string, client *http.Client, cache *service.RequestCache) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		cache:   cache,
	}
}

func (c *Client) ListProducts(ctx context.Context, params map[string]string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getCached(ctx, "/api/products", params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListCustomers(ctx context.Context, params map[string]string) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.getCached(ctx, "/api/customers", params, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetProduct fetches one product; cart lines need its base price and tiers.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.getCached(ctx, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) getCached(ctx context.Context, path string, params map[string]string, dest any) error {
	key := c.cache.DeriveKey(path, params)
	if c.cache.Get(ctx, key, dest) {
		return nil
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, path, params)
	})
	if err != nil {
		return err
	}

	payload := raw.([]byte)
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	c.cache.Set(ctx, key, json.RawMessage(payload))
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		endpoint += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
