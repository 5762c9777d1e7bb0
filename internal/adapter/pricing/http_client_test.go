package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-register/internal/core/domain"
)

func TestRecalculate_Success(t *testing.T) {
	var gotReq domain.RecalcRequest
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/cart/recalculate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(domain.ValidationResult{
			Items: []domain.LineResult{
				{
					ProductID:    "prod-a",
					UnitPrice:    decimal.NewFromInt(95),
					TierName:     "promo",
					TotalAmount:  decimal.NewFromInt(190),
					IsAvailable:  true,
					AvailableQty: 7,
				},
			},
			Subtotal: decimal.NewFromInt(190),
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	result, err := client.Recalculate(context.Background(), domain.RecalcRequest{
		Items: []domain.RecalcItem{{ProductID: "prod-a", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotRequestID == "" {
		t.Error("expected X-Request-ID header")
	}
	if len(gotReq.Items) != 1 || gotReq.Items[0].ProductID != "prod-a" || gotReq.Items[0].Quantity != 2 {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}
	if !result.Subtotal.Equal(decimal.NewFromInt(190)) {
		t.Errorf("expected subtotal 190, got %s", result.Subtotal)
	}
	if result.Items[0].AvailableQty != 7 {
		t.Errorf("expected availability passthrough, got %+v", result.Items[0])
	}
}

func TestRecalculate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	if _, err := client.Recalculate(context.Background(), domain.RecalcRequest{}); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestRecalculate_BadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	if _, err := client.Recalculate(context.Background(), domain.RecalcRequest{}); err == nil {
		t.Error("expected error for unparseable response")
	}
}
