package coupon

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	codes map[string]Descriptor
	err   error
	calls []string
}

func (s *stubRegistry) Lookup(_ context.Context, code string) (Descriptor, error) {
	s.calls = append(s.calls, code)
	if s.err != nil {
		return Descriptor{}, s.err
	}
	d, ok := s.codes[code]
	if !ok {
		return Descriptor{}, ErrInvalidCoupon
	}
	return d, nil
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "NEW20", Normalize("new20"))
	assert.Equal(t, "NEW20", Normalize("  New20 \n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestEvaluate_CaseInsensitive(t *testing.T) {
	e := NewEvaluator(DefaultStatic())
	subtotal := decimal.RequireFromString("25")

	lower, err := e.Evaluate(context.Background(), "new20")
	require.NoError(t, err)
	upper, err := e.Evaluate(context.Background(), "NEW20")
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.True(t, Discount(lower.Discount, subtotal).Equal(Discount(upper.Discount, subtotal)))
	assert.True(t, Payable(subtotal, &lower).Equal(decimal.RequireFromString("20")))
}

func TestEvaluate_Invalid(t *testing.T) {
	e := NewEvaluator(DefaultStatic())

	for _, code := range []string{"", "  ", "BOGUS", "SAVE100"} {
		_, err := e.Evaluate(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidCoupon, code)
	}
}

func TestEvaluate_RegistryFailureIsNotInvalidCoupon(t *testing.T) {
	boom := errors.New("db down")
	e := NewEvaluator(&stubRegistry{err: boom})

	_, err := e.Evaluate(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCoupon))
	assert.ErrorIs(t, err, boom)
}

func TestChain_ConsultsInOrder(t *testing.T) {
	db := &stubRegistry{codes: map[string]Descriptor{
		"SUMMER5": {Code: "SUMMER5", Discount: 5, Description: "summer"},
		"SAVE10":  {Code: "SAVE10", Discount: 50, Description: "shadowed"},
	}}
	e := NewEvaluator(Chain{DefaultStatic(), db})

	d, err := e.Evaluate(context.Background(), "save10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Discount)
	assert.Empty(t, db.calls)

	d, err = e.Evaluate(context.Background(), "summer5")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Discount)
	assert.Equal(t, []string{"SUMMER5"}, db.calls)
}

func TestDiscountAndPayable(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		percent  int
		discount string
		payable  string
	}{
		{name: "no coupon math", subtotal: "25", percent: 0, discount: "0", payable: "25"},
		{name: "twenty percent", subtotal: "25", percent: 20, discount: "5", payable: "20"},
		// 34.25 - 3.425 = 30.825 は 30.83 に丸める
		{name: "save10 rounds half up", subtotal: "34.25", percent: 10, discount: "3.425", payable: "30.83"},
		{name: "full discount", subtotal: "10", percent: 100, discount: "10", payable: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := decimal.RequireFromString(tt.subtotal)
			got := Discount(tt.percent, sub)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.discount)), "discount=%s", got)

			var d *Descriptor
			if tt.percent > 0 {
				d = &Descriptor{Discount: tt.percent}
			}
			pay := Payable(sub, d)
			assert.True(t, pay.Equal(decimal.RequireFromString(tt.payable)), "payable=%s", pay)
		})
	}
}

func TestSnapshot(t *testing.T) {
	assert.Equal(t, "{}", Snapshot(nil))
	assert.JSONEq(t,
		`{"code":"SAVE10","discount":10,"description":"10% off your order"}`,
		Snapshot(&Descriptor{Code: "SAVE10", Discount: 10, Description: "10% off your order"}),
	)
}
