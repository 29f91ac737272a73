package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/events"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/pricing"
	"github.com/noah-isme/toko-checkout/internal/shipping"
)

var (
	// ErrCustomerNotFound indicates the requested customer is not registered.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidCustomer is returned when customer parameters are invalid.
	ErrInvalidCustomer = errors.New("invalid customer")
)

var tracer = otel.Tracer("github.com/noah-isme/toko-checkout/internal/checkout")

// Config groups Engine dependencies. ShippingFee defaults to pricing.DefaultShippingFee.
// Stock exclusion is configured on the catalog store.
type Config struct {
	Catalog     *catalog.Store
	Dispatcher  shipping.Dispatcher
	Events      *events.Bus
	ShippingFee *pricing.Money
	Logger      zerolog.Logger
}

// Engine validates and commits checkouts against a shared catalog.
type Engine struct {
	catalog     *catalog.Store
	dispatcher  shipping.Dispatcher
	events      *events.Bus
	shippingFee pricing.Money
	logger      zerolog.Logger

	mu        sync.RWMutex
	customers map[string]*Customer
}

// NewEngine constructs an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("checkout: catalog is required")
	}
	fee := pricing.DefaultShippingFee
	if cfg.ShippingFee != nil {
		if cfg.ShippingFee.IsNegative() {
			return nil, errors.New("checkout: shipping fee must not be negative")
		}
		fee = *cfg.ShippingFee
	}
	return &Engine{
		catalog:     cfg.Catalog,
		dispatcher:  cfg.Dispatcher,
		events:      cfg.Events,
		shippingFee: fee,
		logger:      cfg.Logger,
		customers:   make(map[string]*Customer),
	}, nil
}

// ShippingFee returns the flat fee added to every checkout.
func (e *Engine) ShippingFee() pricing.Money { return e.shippingFee }

// NewCustomer registers a customer with an empty cart.
func (e *Engine) NewCustomer(name string, balance pricing.Money) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidCustomer)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("balance must not be negative: %w", ErrInvalidCustomer)
	}
	c := &Customer{
		id:      uuid.NewString(),
		name:    name,
		engine:  e,
		balance: balance,
		cart:    cart.New(),
		state:   StateIdle,
	}
	e.mu.Lock()
	e.customers[c.id] = c
	e.mu.Unlock()
	return c, nil
}

// Customer returns the registered customer with id.
func (e *Engine) Customer(id string) (*Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.customers[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrCustomerNotFound)
	}
	return c, nil
}

// Customer owns one cart and a balance. Its methods are safe for concurrent use.
type Customer struct {
	id     string
	name   string
	engine *Engine

	mu      sync.Mutex
	balance pricing.Money
	cart    *cart.Cart
	state   State
}

// CartView is a read-only copy of a cart.
type CartView struct {
	Lines []cart.Line   `json:"lines"`
	Total pricing.Money `json:"total"`
}

// CustomerView is the JSON representation of a customer.
type CustomerView struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Balance pricing.Money `json:"balance"`
	State   State         `json:"state"`
	Cart    CartView      `json:"cart"`
}

func (c *Customer) ID() string   { return c.id }
func (c *Customer) Name() string { return c.name }

// Balance returns the current balance.
func (c *Customer) Balance() pricing.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// Deposit adds amount to the balance and returns the new balance.
func (c *Customer) Deposit(amount pricing.Money) (pricing.Money, error) {
	if !amount.IsPositive() {
		return pricing.Zero, fmt.Errorf("deposit must be positive: %w", ErrInvalidCustomer)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = c.balance.Add(amount)
	c.engine.logger.Debug().Str("customer_id", c.id).Str("balance", c.balance.String()).Msg("balance deposited")
	return c.balance, nil
}

// State returns the state the last checkout ended in.
func (c *Customer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cart returns a copy of the cart contents.
func (c *Customer) Cart() CartView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CartView{Lines: c.cart.Lines(), Total: c.cart.Total()}
}

// View returns a snapshot of the customer.
func (c *Customer) View() CustomerView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CustomerView{
		ID:      c.id,
		Name:    c.name,
		Balance: c.balance,
		State:   c.state,
		Cart:    CartView{Lines: c.cart.Lines(), Total: c.cart.Total()},
	}
}

// AddToCart looks the item up in the catalog and adds quantity units at the current price.
// It fails with catalog.ErrNotFound, cart.ErrInsufficientStock or cart.ErrExpiredProduct.
func (c *Customer) AddToCart(ctx context.Context, itemID catalog.ID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.engine.logger.With().Str("customer_id", c.id).Str("item_id", string(itemID)).Int("quantity", quantity).Logger()
	item, err := c.engine.catalog.Snapshot(itemID)
	if err != nil {
		obs.ObserveCartAdd("not_found")
		logger.Debug().Err(err).Msg("add to cart rejected")
		return err
	}
	if err := c.cart.Add(item, quantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrExpiredProduct):
			obs.ObserveCartAdd("expired_product")
		default:
			obs.ObserveCartAdd("insufficient_stock")
		}
		logger.Debug().Err(err).Msg("add to cart rejected")
		return err
	}
	obs.ObserveCartAdd("added")
	logger.Debug().Str("total", c.cart.Total().String()).Msg("added to cart")
	return nil
}

// Checkout validates the cart against the balance and stock, commits the stock decrement,
// balance debit and cart clear, then dispatches shippable items.
//
// Business outcomes (empty cart, insufficient funds, out of stock) are reported through
// Receipt.Status with a nil error and leave every piece of state untouched. A non-nil error
// means the engine could not run the checkout at all.
func (c *Customer) Checkout(ctx context.Context) (Receipt, error) {
	ctx, span := tracer.Start(ctx, "checkout", trace.WithAttributes(attribute.String("customer.id", c.id)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	receipt, err := c.checkout(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		obs.ObserveCheckout("error")
		c.engine.logger.Error().Err(err).Str("customer_id", c.id).Msg("checkout failed")
		return receipt, err
	}
	span.SetAttributes(attribute.String("checkout.outcome", string(receipt.Status)))
	obs.ObserveCheckout(string(receipt.Status))
	return receipt, nil
}

func (c *Customer) checkout(ctx context.Context) (Receipt, error) {
	e := c.engine
	if err := c.transition(StateValidating); err != nil {
		return Receipt{}, err
	}
	receipt := Receipt{CustomerID: c.id, Balance: c.balance, Subtotal: pricing.Zero, Shipping: pricing.Zero, Total: pricing.Zero}

	if c.cart.IsEmpty() {
		return c.reject(ctx, receipt, StatusEmptyCart, "")
	}

	summary := pricing.Compute(c.cart.Total(), e.shippingFee)
	receipt.Subtotal = summary.Subtotal
	receipt.Shipping = summary.Shipping
	receipt.Total = summary.Total
	if !summary.Affordable(c.balance) {
		return c.reject(ctx, receipt, StatusInsufficientFunds, "")
	}

	lines := c.cart.Lines()
	reqs := make([]catalog.StockRequest, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, catalog.StockRequest{ItemID: l.ItemID, Qty: l.Quantity})
	}
	reserveErr := e.catalog.Reserve(ctx, reqs)
	switch {
	case errors.Is(reserveErr, catalog.ErrInsufficientStock):
		return c.reject(ctx, receipt, StatusOutOfStock, reserveErr.Error())
	case reserveErr != nil:
		_ = c.transition(StateRejected)
		return receipt, fmt.Errorf("reserve stock: %w", reserveErr)
	}

	// Stock is committed; nothing below may fail.
	if err := c.transition(StateCommitting); err != nil {
		return receipt, err
	}
	c.balance = c.balance.Sub(summary.Total)
	c.cart.Clear()
	receipt.Balance = c.balance
	receipt.Lines = lines

	if err := c.transition(StateDispatching); err != nil {
		return receipt, err
	}
	receipt.Shipments = c.dispatch(ctx, lines)

	if err := c.transition(StateComplete); err != nil {
		return receipt, err
	}
	receipt.Status = StatusCompleted
	receipt.State = c.state

	e.logger.Info().
		Str("customer_id", c.id).
		Str("subtotal", summary.Subtotal.String()).
		Str("shipping", summary.Shipping.String()).
		Str("total", summary.Total.String()).
		Str("balance", c.balance.String()).
		Int("lines", len(lines)).
		Int("shipments", len(receipt.Shipments)).
		Msg("checkout completed")
	c.emit(ctx, events.TopicCheckoutCompleted, map[string]any{
		"customerId": c.id,
		"subtotal":   summary.Subtotal,
		"shipping":   summary.Shipping,
		"total":      summary.Total,
		"balance":    c.balance,
		"lines":      lines,
	})
	return receipt, nil
}

func (c *Customer) dispatch(ctx context.Context, lines []cart.Line) []shipping.Shipment {
	e := c.engine
	shippable := make([]catalog.Shippable, 0, len(lines))
	for _, l := range lines {
		item, err := e.catalog.Snapshot(l.ItemID)
		if err != nil {
			e.logger.Warn().Err(err).Str("item_id", string(l.ItemID)).Msg("committed item missing from catalog")
			continue
		}
		if item.IsShippable() {
			shippable = append(shippable, item)
		}
	}
	if len(shippable) == 0 || e.dispatcher == nil {
		return nil
	}
	return e.dispatcher.Dispatch(ctx, shippable)
}

func (c *Customer) reject(ctx context.Context, receipt Receipt, status Status, reason string) (Receipt, error) {
	if err := c.transition(StateRejected); err != nil {
		return receipt, err
	}
	receipt.Status = status
	receipt.State = c.state
	receipt.Reason = reason
	c.engine.logger.Info().
		Str("customer_id", c.id).
		Str("status", string(status)).
		Str("total", receipt.Total.String()).
		Str("balance", receipt.Balance.String()).
		Msg("checkout rejected")
	if status != StatusEmptyCart {
		c.emit(ctx, events.TopicCheckoutRejected, map[string]any{
			"customerId": c.id,
			"status":     status,
			"total":      receipt.Total,
			"balance":    receipt.Balance,
			"reason":     reason,
		})
	}
	return receipt, nil
}

func (c *Customer) emit(ctx context.Context, topic string, payload map[string]any) {
	if c.engine.events == nil {
		return
	}
	if _, err := c.engine.events.Emit(ctx, topic, c.id, payload); err != nil {
		c.engine.logger.Warn().Err(err).Str("topic", topic).Msg("emit checkout event")
	}
}
