package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	//Create は住所を新規作成する。
	Create(ctx context.Context, address model.Address) (model.Address, error)

	//ユーザーが持つ住所一覧を新しい順に返す
	ListByUserID(ctx context.Context, userID string) ([]model.Address, error)

	//住所IDから住所を1件取得
	FindByID(ctx context.Context, addressID string) (model.Address, error)

	//住所の削除。
	Delete(ctx context.Context, addressID string) error

	//住所がそのユーザーのものか確認
	IsOwnedByUser(ctx context.Context, addressID, userID string) (bool, error)
}
