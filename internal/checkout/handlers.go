package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Handler exposes customer, cart and checkout endpoints.
type Handler struct {
	engine             *Engine
	checkoutMiddleware []func(http.Handler) http.Handler
}

// HandlerConfig configures the Handler dependencies. CheckoutMiddleware wraps the checkout
// route only.
type HandlerConfig struct {
	Engine             *Engine
	CheckoutMiddleware []func(http.Handler) http.Handler
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{engine: cfg.Engine, checkoutMiddleware: cfg.CheckoutMiddleware}
}

type createCustomerRequest struct {
	Name    string        `json:"name" validate:"required"`
	Balance pricing.Money `json:"balance"`
}

type depositRequest struct {
	Amount pricing.Money `json:"amount"`
}

type addToCartRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity"`
}

// Routes mounts the customer endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateCustomer)
	r.Get("/{id}", h.GetCustomer)
	r.Post("/{id}/deposit", h.Deposit)
	r.Get("/{id}/cart", h.GetCart)
	r.Post("/{id}/cart", h.AddToCart)
	r.With(h.checkoutMiddleware...).Post("/{id}/checkout", h.Checkout)
}

// CreateCustomer handles POST /api/v1/customers.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout not configured", nil)
		return
	}
	var req createCustomerRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	customer, err := h.engine.NewCustomer(req.Name, req.Balance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": customer.View()})
}

// GetCustomer handles GET /api/v1/customers/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": customer.View()})
}

// Deposit handles POST /api/v1/customers/{id}/deposit.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := customer.Deposit(req.Amount); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": customer.View()})
}

// GetCart handles GET /api/v1/customers/{id}/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": customer.Cart()})
}

// AddToCart handles POST /api/v1/customers/{id}/cart.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := customer.AddToCart(r.Context(), catalog.ID(req.ItemID), req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": customer.Cart()})
}

// Checkout handles POST /api/v1/customers/{id}/checkout. Rejections are returned with
// status 200 and the outcome in the receipt.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}
	receipt, err := customer.Checkout(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": receipt})
}

func (h *Handler) customer(w http.ResponseWriter, r *http.Request) (*Customer, bool) {
	if h.engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout not configured", nil)
		return nil, false
	}
	customer, err := h.engine.Customer(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return customer, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "customer not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "catalog item not found", nil)
	case errors.Is(err, ErrInvalidCustomer):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_CUSTOMER", err.Error(), nil)
	case errors.Is(err, cart.ErrInsufficientStock):
		common.JSONError(w, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, cart.ErrExpiredProduct):
		common.JSONError(w, http.StatusUnprocessableEntity, "EXPIRED_PRODUCT", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
