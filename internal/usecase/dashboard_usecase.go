package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	repo "storefront/internal/repository"
)

type SellerDashboard struct {
	TotalOrders   int64           `json:"totalOrders"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	TotalProducts int64           `json:"totalProducts"`
}

type AdminDashboard struct {
	Products int64           `json:"products"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int64           `json:"orders"`
	Stores   int64           `json:"stores"`
}

type DashboardUsecase struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
	stores   repo.StoreRepository
}

func NewDashboardUsecase(orders repo.OrderRepository, products repo.ProductRepository, stores repo.StoreRepository) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, products: products, stores: stores}
}

// Seller は自店舗の集計。売上は整数に丸める
func (u *DashboardUsecase) Seller(ctx context.Context, storeID string) (SellerDashboard, error) {
	var (
		stats    repo.OrderStats
		products int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = u.orders.Stats(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = u.products.Count(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return SellerDashboard{}, Internal(err)
	}

	return SellerDashboard{
		TotalOrders:   stats.Count,
		TotalEarnings: stats.Revenue.Round(0),
		TotalProducts: products,
	}, nil
}

// Admin は全体の集計。4つの件数を並行に取る
func (u *DashboardUsecase) Admin(ctx context.Context) (AdminDashboard, error) {
	var out AdminDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := u.products.Count(gctx, "")
		out.Products = n
		return err
	})
	g.Go(func() error {
		st, err := u.orders.Stats(gctx, "")
		out.Orders = st.Count
		out.Revenue = st.Revenue.Round(2)
		return err
	})
	g.Go(func() error {
		n, err := u.stores.Count(gctx)
		out.Stores = n
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminDashboard{}, Internal(err)
	}
	return out, nil
}
