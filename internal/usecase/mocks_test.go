package usecase

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/model"
	"storefront/internal/notify"
	repo "storefront/internal/repository"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	stores     repo.StoreRepository
	products   repo.ProductRepository
	audits     repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Stores() repo.StoreRepository         { return r.stores }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.audits }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindHydrated(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	return m.Called(ctx, orderID, from, to).Error(0)
}

func (m *OrderRepoMock) Stats(ctx context.Context, storeID string) (repo.OrderStats, error) {
	args := m.Called(ctx, storeID)
	st, _ := args.Get(0).(repo.OrderStats)
	return st, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) ListByStore(ctx context.Context, storeID string, inStockOnly bool) ([]model.Product, error) {
	args := m.Called(ctx, storeID, inStockOnly)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) ListPublic(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) SetInStock(ctx context.Context, id string, inStock bool) error {
	return m.Called(ctx, id, inStock).Error(0)
}

func (m *ProductRepoMock) Count(ctx context.Context, storeID string) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) Create(ctx context.Context, s model.Store) (model.Store, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.Store)
	return out, args.Error(1)
}

func (m *StoreRepoMock) FindByID(ctx context.Context, id string) (model.Store, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) FindByUserID(ctx context.Context, userID string) (model.Store, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) FindByUsername(ctx context.Context, username string) (model.Store, error) {
	args := m.Called(ctx, username)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) ListByStatus(ctx context.Context, statuses ...model.StoreStatus) ([]model.Store, error) {
	args := m.Called(ctx, statuses)
	list, _ := args.Get(0).([]model.Store)
	return list, args.Error(1)
}

func (m *StoreRepoMock) UpdateStatus(ctx context.Context, id string, status model.StoreStatus, isActive bool) error {
	return m.Called(ctx, id, status, isActive).Error(0)
}

func (m *StoreRepoMock) SetActive(ctx context.Context, id string, isActive bool) error {
	return m.Called(ctx, id, isActive).Error(0)
}

func (m *StoreRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Address)
	return out, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID string) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID string) error {
	return m.Called(ctx, addressID).Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID string) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Coupon)
	return out, args.Error(1)
}

func (m *CouponRepoMock) List(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Coupon)
	return list, args.Error(1)
}

func (m *CouponRepoMock) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *CouponRepoMock) FindActive(ctx context.Context, code string, now time.Time) (model.Coupon, error) {
	args := m.Called(ctx, code, now)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// =====================
// Port mocks
// =====================

type MetricsMock struct{ mock.Mock }

func (m *MetricsMock) OrderPlaced(ctx context.Context, paymentMethod string, couponUsed bool) {
	m.Called(ctx, paymentMethod, couponUsed)
}

func (m *MetricsMock) StatusAdvanced(ctx context.Context, to string) {
	m.Called(ctx, to)
}

func (m *MetricsMock) CartExcluded(ctx context.Context, n int) {
	m.Called(ctx, n)
}

type MediaMock struct{ mock.Mock }

func (m *MediaMock) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, filename)
	return args.String(0), args.Error(1)
}

type SubmitterMock struct{ mock.Mock }

func (m *SubmitterMock) Submit(ctx context.Context, ev notify.Event) error {
	return m.Called(ctx, ev).Error(0)
}

// 既定の静的クーポン表で照合する
func staticEvaluator() *coupon.Evaluator {
	return coupon.NewEvaluator(coupon.DefaultStatic())
}

// テスト用の固定ID
const (
	userID    = "11111111-1111-4111-8111-111111111111"
	otherUser = "22222222-2222-4222-8222-222222222222"
	storeID   = "33333333-3333-4333-8333-333333333333"
	storeB    = "44444444-4444-4444-8444-444444444444"
	addressID = "55555555-5555-4555-8555-555555555555"
	productA  = "66666666-6666-4666-8666-666666666666"
	productB  = "77777777-7777-4777-8777-777777777777"
	orderID   = "88888888-8888-4888-8888-888888888888"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedID(id string) IDGenerator { return func() string { return id } }
