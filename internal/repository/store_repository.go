package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type StoreRepository interface {
	// username 重複時は ErrDuplicate
	Create(ctx context.Context, s model.Store) (model.Store, error)
	FindByID(ctx context.Context, id string) (model.Store, error)
	FindByUserID(ctx context.Context, userID string) (model.Store, error)
	// username は小文字で比較
	FindByUsername(ctx context.Context, username string) (model.Store, error)

	ListByStatus(ctx context.Context, statuses ...model.StoreStatus) ([]model.Store, error)

	// 審査結果。approved なら公開状態にする
	UpdateStatus(ctx context.Context, id string, status model.StoreStatus, isActive bool) error
	SetActive(ctx context.Context, id string, isActive bool) error

	Count(ctx context.Context) (int64, error)
}
