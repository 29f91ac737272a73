package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/checkout"
	"github.com/noah-isme/toko-checkout/internal/config"
	"github.com/noah-isme/toko-checkout/internal/events"
	"github.com/noah-isme/toko-checkout/internal/lock"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/pricing"
	"github.com/noah-isme/toko-checkout/internal/shipping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLoggerTo(os.Stderr, "console", cfg.LogLevel)
	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("shop demo")
	}
}

// run plays the reference scenario: a customer who cannot afford the cart, tops up and
// checks out, then tries again with an empty cart.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	store := catalog.NewStore(catalog.WithLocker(lock.NewLocal(), cfg.LockTTL))
	items, err := catalog.Seed(store, catalog.DemoItems())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	milk, err := store.Add(catalog.Params{Name: "Milk", Price: pricing.FromFloat(2), Quantity: 5, Weight: 1, Perishable: true, Expired: true})
	if err != nil {
		return fmt.Errorf("add expired item: %w", err)
	}

	bus := &events.Bus{Store: &events.MemoryStore{}, Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}}}
	fee := cfg.ShippingFlatRate
	engine, err := checkout.NewEngine(checkout.Config{
		Catalog:     store,
		Dispatcher:  shipping.LogDispatcher{Logger: logger, Events: bus},
		Events:      bus,
		ShippingFee: &fee,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build checkout engine: %w", err)
	}

	fmt.Fprintln(out, "Flat shipping fee:", engine.ShippingFee().String())

	alice, err := engine.NewCustomer("Alice", pricing.FromFloat(100))
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	for i, qty := range []int{1, 2, 3} {
		if err := alice.AddToCart(ctx, items[i].ID(), qty); err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
	if err := alice.AddToCart(ctx, milk.ID(), 1); err != nil {
		fmt.Fprintln(out, "Error:", err)
	}
	if err := alice.AddToCart(ctx, items[0].ID(), 0); err != nil {
		fmt.Fprintln(out, "Error:", err)
	}
	fmt.Fprintln(out, "Cart total:", alice.Cart().Total.String())

	printCheckout(ctx, out, alice)
	printCheckout(ctx, out, alice)

	if _, err := alice.Deposit(pricing.FromFloat(2900)); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	fmt.Fprintln(out, "Balance topped up to:", alice.Balance().String())
	printCheckout(ctx, out, alice)
	printCheckout(ctx, out, alice)

	for _, v := range store.List() {
		fmt.Fprintf(out, "Stock %s: %d\n", v.Name, v.Stock)
	}
	return nil
}

func printCheckout(ctx context.Context, out io.Writer, c *checkout.Customer) {
	receipt, err := c.Checkout(ctx)
	if err != nil {
		fmt.Fprintln(out, "Checkout failed:", err)
		return
	}
	for _, line := range receipt.Text() {
		fmt.Fprintln(out, line)
	}
}
