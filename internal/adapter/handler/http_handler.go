package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rl1809/pos-register/internal/core/domain"
	"github.com/rl1809/pos-register/internal/core/service"
)

// Catalog is the read side the handler serves list screens from.
type Catalog interface {
	ListProducts(ctx context.Context, params map[string]string) ([]domain.Product, error)
	ListCustomers(ctx context.Context, params map[string]string) ([]domain.Customer, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// HTTPHandler is the local surface the register UI talks to.
type HTTPHandler struct {
	engine  *service.CartEngine
	catalog Catalog
	cache   *service.RequestCache
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SetCustomerRequest struct {
	Customer *domain.Customer `json:"customer"`
}

type ValidateResponse struct {
	Outcome string               `json:"outcome"`
	Cart    service.CartSnapshot `json:"cart"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewHTTPHandler(engine *service.CartEngine, catalog Catalog, cache *service.RequestCache) *HTTPHandler {
	return &HTTPHandler{engine: engine, catalog: catalog, cache: cache}
}

func (h *HTTPHandler) Cart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing product_id"})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Message: "product lookup failed"})
		return
	}

	h.engine.AddItem(*product, req.Quantity)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing product_id"})
		return
	}

	h.engine.RemoveItem(req.ProductID)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing product_id"})
		return
	}

	h.engine.UpdateQuantity(req.ProductID, req.Quantity)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SetCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	h.engine.SetCustomer(req.Customer)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.engine.ClearCart()
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *HTTPHandler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	outcome := h.engine.ValidateCart(r.Context())
	writeJSON(w, http.StatusOK, ValidateResponse{
		Outcome: outcome.String(),
		Cart:    h.engine.Snapshot(),
	})
}

func (h *HTTPHandler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), queryParams(r))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Message: "product list unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) Customers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	customers, err := h.catalog.ListCustomers(r.Context(), queryParams(r))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Message: "customer list unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *HTTPHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.cache.Clear(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryParams(r *http.Request) map[string]string {
	values := r.URL.Query()
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
