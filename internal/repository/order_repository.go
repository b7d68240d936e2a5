package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// 注文一覧の条件。空文字の項目は絞り込まない（AND）
type OrderListFilter struct {
	UserID  string
	StoreID string
	Status  model.OrderStatus
	Page    int
	Limit   int
}

// 注文の件数と売上合計
type OrderStats struct {
	Count   int64
	Revenue decimal.Decimal
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)

	// 明細・商品・住所・ユーザー・店舗まで読み込む
	FindHydrated(ctx context.Context, orderID string) (model.Order, error)

	// 作成日時の新しい順。件数は絞り込み後の総数
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	// 現在の状態が from のときだけ to に更新する（0件なら ErrConflict）
	UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error

	// storeID が空なら全体
	Stats(ctx context.Context, storeID string) (OrderStats, error)
}
