package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/currency"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestToUSDCents(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   int64
	}{
		{"ten gtq at 0.13", "10", "0.13", 130},
		{"five gtq at 0.13", "5", "0.13", 65},
		{"zero amount", "0", "0.13", 0},
		{"whole rate", "7", "1", 700},
		{"sub-cent rounds half away from zero", "0.5", "0.01", 1}, // 0.5 cents -> 1
		{"just below half rounds down", "0.4", "0.01", 0},
		{"fraction of a cent", "1.234", "0.13", 16}, // 16.042 cents
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.ToUSDCents(d(tt.amount), d(tt.rate))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToUSDCents_IsDeterministic(t *testing.T) {
	a, r := d("123.456"), d("0.129")
	first, err := currency.ToUSDCents(a, r)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := currency.ToUSDCents(a, r)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.GreaterOrEqual(t, first, int64(0))
}

func TestToUSDCents_RejectsBadRate(t *testing.T) {
	for _, rate := range []string{"0", "-0.13"} {
		_, err := currency.ToUSDCents(d("10"), d(rate))
		require.ErrorIs(t, err, currency.ErrInvalidRate)
	}
}

func TestFromUSDCents(t *testing.T) {
	got, err := currency.FromUSDCents(325, d("0.13"))
	require.NoError(t, err)
	require.True(t, got.Equal(d("25")), "got %s", got)

	_, err = currency.FromUSDCents(100, d("0"))
	require.ErrorIs(t, err, currency.ErrInvalidRate)
}
