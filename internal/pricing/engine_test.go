package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	require.True(t, LineTotal(FromFloat(5.2), 3).Equal(FromFloat(15.6)))
	require.True(t, LineTotal(FromFloat(1000), 0).IsZero())
	require.True(t, LineTotal(FromFloat(1000), -1).IsZero())
}

func TestComputeAddsShipping(t *testing.T) {
	summary := Compute(FromFloat(2015.6), DefaultShippingFee)
	require.True(t, summary.Total.Equal(FromFloat(2025.6)))
	require.True(t, summary.Shipping.Equal(FromFloat(10)))

	negative := Compute(FromFloat(5), FromFloat(-3))
	require.True(t, negative.Shipping.IsZero())
	require.True(t, negative.Total.Equal(FromFloat(5)))
}

func TestAffordable(t *testing.T) {
	summary := Compute(FromFloat(90), DefaultShippingFee)
	require.True(t, summary.Affordable(FromFloat(100)))
	require.True(t, summary.Affordable(FromFloat(150)))
	require.False(t, summary.Affordable(FromFloat(99.99)))

	// shipping is owed on top of the subtotal, never credited to the balance
	reference := Compute(FromFloat(2015.6), DefaultShippingFee)
	require.False(t, reference.Affordable(FromFloat(2010)))
	require.True(t, reference.Affordable(FromFloat(2025.6)))
}

func TestParse(t *testing.T) {
	m, err := Parse(" 10.50 ")
	require.NoError(t, err)
	require.Equal(t, "10.5", m.String())

	_, err = Parse("abc")
	require.Error(t, err)
	_, err = Parse("-1")
	require.Error(t, err)
}
