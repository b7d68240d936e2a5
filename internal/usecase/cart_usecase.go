package usecase

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartView はカート画面の内容
type CartView struct {
	Items    []cart.Line        `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Coupon   *coupon.Descriptor `json:"coupon,omitempty"`
	Total    decimal.Decimal    `json:"total"`
	Excluded int                `json:"excluded"`
}

type ApplyCouponInput struct {
	Code string `json:"code"`
}

type CheckoutInput struct {
	AddressID     string              `json:"addressId"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
}

// CartUsecase はユーザーごとのカート（メモリ上）を扱う
type CartUsecase struct {
	sessions *cart.Sessions
	products repo.ProductRepository
	coupons  CouponEvaluator
	orders   *OrderUsecase
	metrics  CartMetrics
}

func NewCartUsecase(
	sessions *cart.Sessions,
	products repo.ProductRepository,
	coupons CouponEvaluator,
	orders *OrderUsecase,
	metrics CartMetrics,
) *CartUsecase {
	return &CartUsecase{
		sessions: sessions,
		products: products,
		coupons:  coupons,
		orders:   orders,
		metrics:  metrics,
	}
}

func (u *CartUsecase) View(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, Unauthorized()
	}
	items, code := u.sessions.Snapshot(userID)
	view, _, err := u.summarize(ctx, userID, items, code)
	return view, err
}

// Add は数量を1増やす。在庫なし・存在しない商品は入れない
func (u *CartUsecase) Add(ctx context.Context, userID, productID string) (CartView, error) {
	if userID == "" {
		return CartView{}, Unauthorized()
	}
	if !isID(productID) {
		return CartView{}, NotFound("product not found")
	}
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NotFound("product not found")
	}
	if err != nil {
		return CartView{}, Internal(err)
	}
	if !p.InStock {
		return CartView{}, Rule("product is out of stock: " + p.Name)
	}

	u.sessions.Update(userID, func(s *cart.Session) { s.Cart.Add(productID) })
	return u.View(ctx, userID)
}

// Remove は数量を1減らす（無ければ何もしない）
func (u *CartUsecase) Remove(ctx context.Context, userID, productID string) (CartView, error) {
	if userID == "" {
		return CartView{}, Unauthorized()
	}
	u.sessions.Update(userID, func(s *cart.Session) { s.Cart.Remove(productID) })
	return u.View(ctx, userID)
}

func (u *CartUsecase) Clear(_ context.Context, userID string) error {
	if userID == "" {
		return Unauthorized()
	}
	u.sessions.Drop(userID)
	return nil
}

// ApplyCoupon は適用中のクーポンを置き換える
func (u *CartUsecase) ApplyCoupon(ctx context.Context, userID string, in ApplyCouponInput) (CartView, error) {
	if userID == "" {
		return CartView{}, Unauthorized()
	}
	if strings.TrimSpace(in.Code) == "" {
		return CartView{}, Validation("code is required")
	}
	d, err := u.coupons.Evaluate(ctx, in.Code)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			return CartView{}, Rule("invalid coupon")
		}
		return CartView{}, Internal(err)
	}

	u.sessions.Update(userID, func(s *cart.Session) { s.Coupon = d.Code })
	return u.View(ctx, userID)
}

func (u *CartUsecase) RemoveCoupon(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, Unauthorized()
	}
	u.sessions.Update(userID, func(s *cart.Session) { s.Coupon = "" })
	return u.View(ctx, userID)
}

// Checkout はカートから注文を作る。成功したときだけ注文した分をカートから外す
func (u *CartUsecase) Checkout(ctx context.Context, userID string, in CheckoutInput) (model.Order, error) {
	if userID == "" {
		return model.Order{}, Unauthorized()
	}
	items, code := u.sessions.Snapshot(userID)
	if len(items) == 0 {
		return model.Order{}, Validation("cart is empty")
	}

	view, summary, err := u.summarize(ctx, userID, items, code)
	if err != nil {
		return model.Order{}, err
	}
	if len(summary.Lines) == 0 {
		return model.Order{}, Validation("cart is empty")
	}
	stores := summary.StoreIDs()
	if len(stores) != 1 {
		return model.Order{}, ruleFrom(ErrMultiStoreCheckout)
	}

	input := CreateOrderInput{
		UserID:        userID,
		StoreID:       stores[0],
		AddressID:     in.AddressID,
		Items:         make([]OrderItemInput, 0, len(summary.Lines)),
		Total:         &view.Total,
		PaymentMethod: in.PaymentMethod,
	}
	for _, l := range summary.Lines {
		input.Items = append(input.Items, OrderItemInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	if view.Coupon != nil {
		input.Coupon = &CouponInput{Code: view.Coupon.Code}
	}

	order, err := u.orders.Create(ctx, input)
	if err != nil {
		return model.Order{}, err
	}
	// 集計から外れた商品はチェックアウト時だけ数える
	if summary.Excluded > 0 {
		u.metrics.CartExcluded(ctx, summary.Excluded)
	}
	u.sessions.Settle(userID, items, code)
	return order, nil
}

// summarize は現在のカタログで集計する。
// 使えなくなったクーポンはセッションから外す。
func (u *CartUsecase) summarize(ctx context.Context, userID string, items []cart.Item, code string) (CartView, cart.Summary, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if isID(it.ProductID) {
			ids = append(ids, it.ProductID)
		}
	}

	catalog := map[string]cart.CatalogEntry{}
	if len(ids) > 0 {
		products, err := u.products.FindByIDs(ctx, ids)
		if err != nil {
			return CartView{}, cart.Summary{}, Internal(err)
		}
		for _, p := range products {
			catalog[p.ID] = cart.CatalogEntry{ProductID: p.ID, StoreID: p.StoreID, Name: p.Name, Price: p.Price}
		}
	}

	summary := cart.FromItems(items).Summarize(catalog)

	var applied *coupon.Descriptor
	if code != "" {
		d, err := u.coupons.Evaluate(ctx, code)
		switch {
		case err == nil:
			applied = &d
		case errors.Is(err, coupon.ErrInvalidCoupon):
			u.sessions.Update(userID, func(s *cart.Session) {
				if s.Coupon == code {
					s.Coupon = ""
				}
			})
		default:
			return CartView{}, cart.Summary{}, Internal(err)
		}
	}

	return CartView{
		Items:    summary.Lines,
		Subtotal: summary.Subtotal,
		Coupon:   applied,
		Total:    coupon.Payable(summary.Subtotal, applied),
		Excluded: summary.Excluded,
	}, summary, nil
}
