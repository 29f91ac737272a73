package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/config"
)

func TestRunReferenceScenario(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{"SHIPPING_FLAT_RATE": ""})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop(), &out))

	text := out.String()
	require.Contains(t, text, "Flat shipping fee: 10\n")
	require.Contains(t, text, "Cart total: 2015.6")
	require.Contains(t, text, "Insufficient balance.")
	require.Contains(t, text, "Shipping Cost: 10\n")
	require.Contains(t, text, "Checkout successful! Your new balance is: 974.4")
	require.Contains(t, text, "Your cart is empty.")
	require.Contains(t, text, "Stock Laptop: 9\n")
	require.Contains(t, text, "Stock Milk: 5\n")
}

func TestRunUsesConfiguredShippingFee(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{"SHIPPING_FLAT_RATE": "2.5"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop(), &out))

	text := out.String()
	require.Contains(t, text, "Flat shipping fee: 2.5\n")
	require.Contains(t, text, "Shipping Cost: 2.5\n")
	require.Contains(t, text, "Total Amount: 2018.1")
	require.Contains(t, text, "Checkout successful! Your new balance is: 981.9")
}
