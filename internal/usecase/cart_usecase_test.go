package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
)

type cartDeps struct {
	sessions *cart.Sessions
	products *ProductRepoMock
	metrics  *MetricsMock
	order    *orderDeps
	uc       *CartUsecase
}

func newCartDeps() *cartDeps {
	od := newOrderDeps()
	d := &cartDeps{
		sessions: cart.NewSessions(),
		products: od.products,
		metrics:  od.metrics,
		order:    od,
	}
	d.uc = NewCartUsecase(d.sessions, d.products, staticEvaluator(), od.uc, d.metrics)
	return d
}

func TestCart_AddRemoveView(t *testing.T) {
	d := newCartDeps()
	ctx := context.Background()

	d.products.On("FindByID", mock.Anything, productA).Return(catalog()[0], nil)
	d.products.On("FindByIDs", mock.Anything, []string{productA}).Return(catalog()[:1], nil)

	_, err := d.uc.Add(ctx, userID, productA)
	require.NoError(t, err)
	view, err := d.uc.Add(ctx, userID, productA)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Subtotal.Equal(dec("20")))
	assert.True(t, view.Total.Equal(dec("20")))

	view, err = d.uc.Remove(ctx, userID, productA)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)

	// 他のユーザーのカートは別
	other, err := d.uc.View(ctx, otherUser)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCart_AddRejectsOutOfStock(t *testing.T) {
	d := newCartDeps()

	p := catalog()[0]
	p.InStock = false
	d.products.On("FindByID", mock.Anything, productA).Return(p, nil)

	_, err := d.uc.Add(context.Background(), userID, productA)
	requireHTTPError(t, err, http.StatusBadRequest, KindBusinessRule)

	items, _ := d.sessions.Snapshot(userID)
	assert.Empty(t, items)
}

func TestCart_MissingProductsAreExcludedFromView(t *testing.T) {
	d := newCartDeps()
	ctx := context.Background()

	d.sessions.Update(userID, func(s *cart.Session) {
		s.Cart.Add(productA)
		s.Cart.Add(productB)
	})
	d.products.On("FindByIDs", mock.Anything, []string{productA, productB}).Return(catalog()[:1], nil)

	for i := 0; i < 2; i++ {
		view, err := d.uc.View(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, view.Items, 1)
		assert.Equal(t, 1, view.Excluded)
		assert.True(t, view.Subtotal.Equal(dec("10")))
	}
	// 表示のたびには数えない
	d.metrics.AssertNotCalled(t, "CartExcluded", mock.Anything, mock.Anything)
}

// 注文中に追加された商品はカートに残り、外れた商品はチェックアウトで一度だけ数える
func TestCart_CheckoutSettlesOnlyOrderedLines(t *testing.T) {
	const staleProduct = "99999999-9999-4999-8999-999999999999"

	d := newCartDeps()
	ctx := context.Background()
	od := d.order

	d.sessions.Update(userID, func(s *cart.Session) {
		s.Cart.Add(productA)
		s.Cart.Add(productA)
		s.Cart.Add(staleProduct)
	})
	d.products.On("FindByIDs", mock.Anything, []string{productA, staleProduct}).Return(catalog()[:1], nil)
	d.products.On("FindByIDs", mock.Anything, []string{productA}).Return(catalog()[:1], nil)
	od.stores.On("FindByID", mock.Anything, storeID).Return(visibleStore(), nil)
	od.addresses.On("FindByID", mock.Anything, addressID).Return(ownAddress(), nil)
	od.tx.On("WithinTx", mock.Anything).Return(nil)
	od.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.Total.Equal(dec("20"))
	})).Run(func(mock.Arguments) {
		d.sessions.Update(userID, func(s *cart.Session) {
			s.Cart.Add(productA)
			s.Cart.Add(productB)
		})
	}).Return(nil)
	od.items.On("CreateBulk", mock.Anything, orderID, mock.Anything).Return(nil)
	od.metrics.On("OrderPlaced", mock.Anything, "COD", false).Return()
	d.metrics.On("CartExcluded", mock.Anything, 1).Return().Once()
	od.orders.On("FindHydrated", mock.Anything, orderID).Return(model.Order{ID: orderID}, nil)

	_, err := d.uc.Checkout(ctx, userID, CheckoutInput{AddressID: addressID, PaymentMethod: model.PaymentCOD})
	require.NoError(t, err)

	items, _ := d.sessions.Snapshot(userID)
	assert.Equal(t, []cart.Item{{ProductID: productA, Quantity: 1}, {ProductID: productB, Quantity: 1}}, items)
	d.metrics.AssertNumberOfCalls(t, "CartExcluded", 1)
}

func TestCart_CouponReplacesPrevious(t *testing.T) {
	d := newCartDeps()
	ctx := context.Background()

	d.sessions.Update(userID, func(s *cart.Session) { s.Cart.Add(productA) })
	d.products.On("FindByIDs", mock.Anything, []string{productA}).Return(catalog()[:1], nil)

	view, err := d.uc.ApplyCoupon(ctx, userID, ApplyCouponInput{Code: "new20"})
	require.NoError(t, err)
	require.NotNil(t, view.Coupon)
	assert.Equal(t, "NEW20", view.Coupon.Code)
	assert.True(t, view.Total.Equal(dec("8")))

	view, err = d.uc.ApplyCoupon(ctx, userID, ApplyCouponInput{Code: "SAVE10"})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", view.Coupon.Code)
	assert.True(t, view.Total.Equal(dec("9")))

	_, err = d.uc.ApplyCoupon(ctx, userID, ApplyCouponInput{Code: "bogus"})
	requireHTTPError(t, err, http.StatusBadRequest, KindBusinessRule)

	view, err = d.uc.RemoveCoupon(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, view.Coupon)
	assert.True(t, view.Total.Equal(dec("10")))
}

func TestCart_CheckoutClearsOnSuccess(t *testing.T) {
	d := newCartDeps()
	ctx := context.Background()
	od := d.order

	d.sessions.Update(userID, func(s *cart.Session) {
		s.Cart.Add(productA)
		s.Cart.Add(productA)
		s.Cart.Add(productB)
		s.Coupon = "NEW20"
	})
	d.products.On("FindByIDs", mock.Anything, []string{productA, productB}).Return(catalog(), nil)
	od.stores.On("FindByID", mock.Anything, storeID).Return(visibleStore(), nil)
	od.addresses.On("FindByID", mock.Anything, addressID).Return(ownAddress(), nil)
	od.tx.On("WithinTx", mock.Anything).Return(nil)
	od.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.Total.Equal(dec("20")) && o.IsCouponUsed
	})).Return(nil)
	od.items.On("CreateBulk", mock.Anything, orderID, mock.Anything).Return(nil)
	od.metrics.On("OrderPlaced", mock.Anything, "STRIPE", true).Return()
	od.orders.On("FindHydrated", mock.Anything, orderID).Return(model.Order{ID: orderID}, nil)

	o, err := d.uc.Checkout(ctx, userID, CheckoutInput{AddressID: addressID, PaymentMethod: model.PaymentStripe})
	require.NoError(t, err)
	assert.Equal(t, orderID, o.ID)

	items, code := d.sessions.Snapshot(userID)
	assert.Empty(t, items)
	assert.Empty(t, code)
}

func TestCart_CheckoutFailureKeepsCart(t *testing.T) {
	d := newCartDeps()

	d.sessions.Update(userID, func(s *cart.Session) {
		s.Cart.Add(productA)
		s.Cart.Add(productB)
	})
	products := catalog()
	products[1].StoreID = storeB
	d.products.On("FindByIDs", mock.Anything, []string{productA, productB}).Return(products, nil)

	_, err := d.uc.Checkout(context.Background(), userID, CheckoutInput{AddressID: addressID, PaymentMethod: model.PaymentCOD})
	assert.True(t, errors.Is(err, ErrMultiStoreCheckout))
	d.order.tx.AssertNotCalled(t, "WithinTx", mock.Anything)

	items, _ := d.sessions.Snapshot(userID)
	assert.Len(t, items, 2)
}

func TestCart_CheckoutEmpty(t *testing.T) {
	d := newCartDeps()

	_, err := d.uc.Checkout(context.Background(), userID, CheckoutInput{AddressID: addressID, PaymentMethod: model.PaymentCOD})
	he := requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
	assert.Equal(t, "cart is empty", he.Message)
}

func TestCart_RequiresUser(t *testing.T) {
	d := newCartDeps()
	_, err := d.uc.View(context.Background(), "")
	requireHTTPError(t, err, http.StatusUnauthorized, KindUnauthorized)
}
