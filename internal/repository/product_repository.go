package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	// 見つかったものだけ返す（順不同）
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// 店舗の商品一覧（新しい順）
	ListByStore(ctx context.Context, storeID string, inStockOnly bool) ([]model.Product, error)

	// 公開中の店舗の在庫あり商品
	ListPublic(ctx context.Context) ([]model.Product, error)

	SetInStock(ctx context.Context, id string, inStock bool) error

	// storeID が空なら全体
	Count(ctx context.Context, storeID string) (int64, error)
}
