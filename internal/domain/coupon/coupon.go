// Package coupon はクーポンコードの正規化・照合・割引計算を扱う。
package coupon

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCoupon は照合できなかったコード（未登録・期限切れ）
var ErrInvalidCoupon = errors.New("invalid coupon")

var hundred = decimal.NewFromInt(100)

// Descriptor は適用可能なクーポンの内容
type Descriptor struct {
	Code        string `json:"code"`
	Discount    int    `json:"discount"`
	Description string `json:"description"`
}

// Registry はコード→クーポンの引き当て先
// 見つからない場合は ErrInvalidCoupon を返す。code は正規化済み。
type Registry interface {
	Lookup(ctx context.Context, code string) (Descriptor, error)
}

// Normalize は前後の空白を除いて大文字化する
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount は percent/100 × subtotal（丸めなし）
func Discount(percent int, subtotal decimal.Decimal) decimal.Decimal {
	if percent <= 0 {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred)
}

// Payable は割引後の支払額を2桁に丸めて返す。
// 丸めは四捨五入（0から遠い方）で、負にはならない。
func Payable(subtotal decimal.Decimal, d *Descriptor) decimal.Decimal {
	total := subtotal
	if d != nil {
		total = subtotal.Sub(Discount(d.Discount, subtotal))
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2)
}

// StaticRegistry は固定のクーポン表
type StaticRegistry map[string]Descriptor

// DefaultStatic は店頭で常時使えるコード
func DefaultStatic() StaticRegistry {
	return StaticRegistry{
		"NEW20":     {Code: "NEW20", Discount: 20, Description: "20% off for new users"},
		"SAVE10":    {Code: "SAVE10", Discount: 10, Description: "10% off your order"},
		"WELCOME15": {Code: "WELCOME15", Discount: 15, Description: "15% welcome discount"},
	}
}

func (r StaticRegistry) Lookup(_ context.Context, code string) (Descriptor, error) {
	d, ok := r[code]
	if !ok {
		return Descriptor{}, ErrInvalidCoupon
	}
	return d, nil
}

// Chain は登録順にレジストリを引き、最初に見つかったものを返す
type Chain []Registry

func (c Chain) Lookup(ctx context.Context, code string) (Descriptor, error) {
	for _, r := range c {
		d, err := r.Lookup(ctx, code)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ErrInvalidCoupon) {
			return Descriptor{}, err
		}
	}
	return Descriptor{}, ErrInvalidCoupon
}

// Evaluator は生のコードを正規化して照合する
type Evaluator struct {
	reg Registry
}

func NewEvaluator(reg Registry) *Evaluator {
	return &Evaluator{reg: reg}
}

// Evaluate は一致したクーポンを返す。空コードや未登録は ErrInvalidCoupon。
func (e *Evaluator) Evaluate(ctx context.Context, raw string) (Descriptor, error) {
	code := Normalize(raw)
	if code == "" {
		return Descriptor{}, ErrInvalidCoupon
	}

	d, err := e.reg.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return Descriptor{}, ErrInvalidCoupon
		}
		return Descriptor{}, errors.Wrap(err, "lookup coupon")
	}
	if d.Discount < 0 || d.Discount > 100 {
		return Descriptor{}, ErrInvalidCoupon
	}
	return d, nil
}

// Snapshot は注文に保存する JSON 表現。クーポンなしは "{}"。
func Snapshot(d *Descriptor) string {
	if d == nil {
		return "{}"
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}
