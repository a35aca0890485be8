package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitPrice(t *testing.T) {
	t.Run("round price splits exactly", func(t *testing.T) {
		got := SplitPrice(decimal.NewFromInt(100))
		if !got.First.Equal(decimal.NewFromInt(60)) {
			t.Errorf("first = %s, want 60", got.First)
		}
		if !got.Second.Equal(decimal.NewFromInt(25)) {
			t.Errorf("second = %s, want 25", got.Second)
		}
		if !got.Third.Equal(decimal.NewFromInt(15)) {
			t.Errorf("third = %s, want 15", got.Third)
		}
	})

	t.Run("amounts are rounded to 2 decimals", func(t *testing.T) {
		got := SplitPrice(decimal.RequireFromString("49.99"))
		for name, d := range map[string]decimal.Decimal{
			"first": got.First, "second": got.Second, "third": got.Third,
		} {
			if d.Exponent() < -2 {
				t.Errorf("%s = %s has more than 2 decimals", name, d)
			}
		}
		if !got.First.Equal(decimal.RequireFromString("29.99")) {
			t.Errorf("first = %s, want 29.99", got.First)
		}
	})
}
