package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/model"
	"storefront/internal/domain/orderflow"
	repo "storefront/internal/repository"
)

type OrderItemInput struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CouponInput struct {
	Code string `json:"code"`
}

// CreateOrderInput は POST /orders の本文
type CreateOrderInput struct {
	UserID        string              `json:"userId"`
	StoreID       string              `json:"storeId"`
	AddressID     string              `json:"addressId"`
	Items         []OrderItemInput    `json:"items"`
	Total         *decimal.Decimal    `json:"total"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Coupon        *CouponInput        `json:"coupon,omitempty"`
	// 受け付けるが使わない（クーポンの有無から決める）
	IsCouponUsed *bool `json:"isCouponUsed,omitempty"`
}

type ListOrdersInput struct {
	UserID  string
	StoreID string
	Status  string
	Page    int
	Limit   int
}

type OrderListOutput struct {
	Orders     []model.Order `json:"orders"`
	Pagination Pagination    `json:"pagination"`
}

type OrderProgressOutput struct {
	OrderID string                    `json:"orderId"`
	Status  model.OrderStatus         `json:"status"`
	Stages  []orderflow.StageProgress `json:"stages"`
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	products  repo.ProductRepository
	stores    repo.StoreRepository
	addresses repo.AddressRepository
	coupons   CouponEvaluator
	metrics   OrderMetrics
	newID     IDGenerator
	now       func() time.Time
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	products repo.ProductRepository,
	stores repo.StoreRepository,
	addresses repo.AddressRepository,
	coupons CouponEvaluator,
	metrics OrderMetrics,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		products:  products,
		stores:    stores,
		addresses: addresses,
		coupons:   coupons,
		metrics:   metrics,
		newID:     NewUUID,
		now:       time.Now,
	}
}

// 入力チェック。最初に見つかった不備だけを返す
func validateCreateOrder(in CreateOrderInput) error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return Validation("userId is required")
	case strings.TrimSpace(in.StoreID) == "":
		return Validation("storeId is required")
	case strings.TrimSpace(in.AddressID) == "":
		return Validation("addressId is required")
	case len(in.Items) == 0:
		return Validation("items must not be empty")
	case in.Total == nil:
		return Validation("total is required")
	case in.Total.IsNegative():
		return Validation("total must be non-negative")
	case in.PaymentMethod == "":
		return Validation("paymentMethod is required")
	case !in.PaymentMethod.Valid():
		return Validation("paymentMethod must be COD or STRIPE")
	}

	seen := make(map[string]struct{}, len(in.Items))
	for i, it := range in.Items {
		switch {
		case strings.TrimSpace(it.ProductID) == "":
			return Validation(fmt.Sprintf("items[%d].productId is required", i))
		case it.Quantity < 1:
			return Validation(fmt.Sprintf("items[%d].quantity must be at least 1", i))
		case it.Price.IsNegative():
			return Validation(fmt.Sprintf("items[%d].price must be non-negative", i))
		}
		if _, dup := seen[it.ProductID]; dup {
			return Validation(fmt.Sprintf("items[%d].productId is duplicated", i))
		}
		seen[it.ProductID] = struct{}{}
	}

	if in.Coupon != nil && strings.TrimSpace(in.Coupon.Code) == "" {
		return Validation("coupon.code is required")
	}
	return nil
}

// Create は注文と明細を1トランザクションで作り、読み戻した注文を返す。
// 店舗・価格・クーポン・合計の検証は全て保存前に行う。
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (model.Order, error) {
	if err := validateCreateOrder(in); err != nil {
		return model.Order{}, err
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if !isID(it.ProductID) {
			return model.Order{}, NotFound("product not found: " + it.ProductID)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := u.products.FindByIDs(ctx, ids)
	if err != nil {
		return model.Order{}, Internal(err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	//1注文=1店舗。複数店舗や指定と違う店舗の商品は保存前に弾く
	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return model.Order{}, NotFound("product not found: " + it.ProductID)
		}
		if p.StoreID != in.StoreID {
			return model.Order{}, ruleFrom(ErrMultiStoreCheckout)
		}
	}

	store, err := u.stores.FindByID(ctx, in.StoreID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NotFound("store not found")
		}
		return model.Order{}, Internal(err)
	}
	if !store.IsVisible() {
		return model.Order{}, Rule("store is not accepting orders")
	}

	//住所は本人のものだけ
	if !isID(in.AddressID) {
		return model.Order{}, NotFound("address not found")
	}
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NotFound("address not found")
		}
		return model.Order{}, Internal(err)
	}
	if addr.UserID != in.UserID {
		return model.Order{}, NotFound("address not found")
	}

	//価格はカタログと一致していること
	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p := byID[it.ProductID]
		if !p.InStock {
			return model.Order{}, Rule("product is out of stock: " + p.Name)
		}
		if !it.Price.Equal(p.Price) {
			return model.Order{}, Rule("price changed for product: " + p.Name)
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}

	var applied *coupon.Descriptor
	if in.Coupon != nil {
		d, err := u.coupons.Evaluate(ctx, in.Coupon.Code)
		if err != nil {
			if errors.Is(err, coupon.ErrInvalidCoupon) {
				return model.Order{}, Rule("invalid coupon")
			}
			return model.Order{}, Internal(err)
		}
		applied = &d
	}

	//合計は2桁に丸め（四捨五入）て呼び出し側の値と比べる
	total := coupon.Payable(subtotal, applied)
	if !total.Equal(in.Total.Round(2)) {
		return model.Order{}, Validation(fmt.Sprintf("total mismatch: expected %s", total.StringFixed(2)))
	}

	now := u.now()
	order := model.Order{
		ID:            u.newID(),
		UserID:        in.UserID,
		StoreID:       in.StoreID,
		AddressID:     addr.ID,
		Shipping:      addr.Snapshot(),
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		IsPaid:        false,
		IsCouponUsed:  applied != nil,
		Coupon:        model.CouponSnapshot(coupon.Snapshot(applied)),
		Status:        orderflow.Initial,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}
		return r.OrderItems().CreateBulk(ctx, order.ID, items)
	})
	if err != nil {
		return model.Order{}, Internal(errors.Wrap(err, "create order"))
	}

	u.metrics.OrderPlaced(ctx, string(order.PaymentMethod), order.IsCouponUsed)

	//読み戻し（トランザクション外）
	hydrated, err := u.orders.FindHydrated(ctx, order.ID)
	if err != nil {
		return model.Order{}, Internal(errors.Wrap(err, "load created order"))
	}
	return hydrated, nil
}

// List は絞り込み（AND）＋ページング。作成日時の新しい順
func (u *OrderUsecase) List(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, Validation("page must be a positive integer")
	}
	if in.Limit < 1 || in.Limit > maxLimit {
		return OrderListOutput{}, Validation("limit must be between 1 and 100")
	}

	f := repo.OrderListFilter{Page: in.Page, Limit: in.Limit}
	if in.UserID != "" {
		if !isID(in.UserID) {
			return OrderListOutput{Orders: []model.Order{}, Pagination: NewPagination(in.Page, in.Limit, 0)}, nil
		}
		f.UserID = in.UserID
	}
	if in.StoreID != "" {
		if !isID(in.StoreID) {
			return OrderListOutput{Orders: []model.Order{}, Pagination: NewPagination(in.Page, in.Limit, 0)}, nil
		}
		f.StoreID = in.StoreID
	}
	if in.Status != "" {
		status := model.OrderStatus(strings.ToUpper(in.Status))
		if orderflow.StageIndex(status) < 0 {
			return OrderListOutput{}, Validation("invalid status")
		}
		f.Status = status
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, Internal(err)
	}
	return OrderListOutput{Orders: orders, Pagination: NewPagination(in.Page, in.Limit, total)}, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID string) (model.Order, error) {
	if !isID(orderID) {
		return model.Order{}, NotFound("order not found")
	}
	o, err := u.orders.FindHydrated(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NotFound("order not found")
		}
		return model.Order{}, Internal(err)
	}
	return o, nil
}

// Progress は表示用の段階一覧
func (u *OrderUsecase) Progress(ctx context.Context, orderID string) (OrderProgressOutput, error) {
	if !isID(orderID) {
		return OrderProgressOutput{}, NotFound("order not found")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderProgressOutput{}, NotFound("order not found")
		}
		return OrderProgressOutput{}, Internal(err)
	}
	return OrderProgressOutput{
		OrderID: o.ID,
		Status:  o.Status,
		Stages:  orderflow.Progress(o.Status),
	}, nil
}
