package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	// 1回のINSERTでまとめて作成
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
}
