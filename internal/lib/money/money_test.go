package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/treasury-admin/internal/lib/money"
)

func TestNormalize_Strings(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1234.56", "1234.56"},
		{"thousands separators", "1,234.56", "1234.56"},
		{"currency suffix", "3469.56 PSC", "3469.56"},
		{"currency suffix with separators", "1,234,567.89 USDT", "1234567.89"},
		{"negative", "-120.00", "-120"},
		{"integer", "900", "900"},
		{"whitespace", "  42.50  ", "42.5"},
		{"garbage", "not a number", "0"},
		{"empty", "", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := money.Normalize(tc.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"Normalize(%q) = %s, want %s", tc.input, got, tc.want)
		})
	}
}

func TestNormalize_NonStringInputs(t *testing.T) {
	assert.True(t, money.Normalize(nil).IsZero(), "nil normalizes to zero")
	assert.True(t, money.Normalize(12.5).Equal(decimal.RequireFromString("12.5")))
	assert.True(t, money.Normalize(42).Equal(decimal.NewFromInt(42)))
	assert.True(t, money.Normalize(int64(-7)).Equal(decimal.NewFromInt(-7)))
	assert.True(t, money.Normalize(json.Number("99.99")).Equal(decimal.RequireFromString("99.99")))
	assert.True(t, money.Normalize(struct{}{}).IsZero(), "unsupported type normalizes to zero")
}

func TestFormat_TwoFractionalDigits(t *testing.T) {
	assert.Equal(t, "600.00", money.Format(decimal.NewFromInt(600)))
	assert.Equal(t, "0.00", money.Format(decimal.Zero))
	assert.Equal(t, "-12.35", money.Format(decimal.RequireFromString("-12.345")))
}

// Сумма десяти тысяч слагаемых по 0.01 должна сойтись копейка в копейку:
// на двоичных float такой цикл накапливает дрейф, на decimal — нет.
func TestSum_NoDriftOverManyAdditions(t *testing.T) {
	total := decimal.Zero
	cent := decimal.RequireFromString("0.01")
	for i := 0; i < 10000; i++ {
		total = total.Add(cent)
	}
	assert.Equal(t, "100.00", money.Format(total))
}

func TestSum_OrderIndependent(t *testing.T) {
	a := decimal.RequireFromString("0.1")
	b := decimal.RequireFromString("0.2")
	c := decimal.RequireFromString("-0.3")

	assert.True(t, money.Sum(a, b, c).Equal(money.Sum(c, a, b)))
	assert.True(t, money.Sum(a, b, c).IsZero())
}
