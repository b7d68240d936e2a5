package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 明細・商品・住所・ユーザー・店舗
func hydrate(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_id asc") }).
		Preload("Items.Product").
		Preload("Address").
		Preload("User").
		Preload("Store")
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	// 明細は OrderItemRepository で別に入れる
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindHydrated(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := hydrate(r.db.WithContext(ctx)).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	// 絞り込み（AND）
	filter := func(q *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			q = q.Where("user_id = ?", f.UserID)
		}
		if f.StoreID != "" {
			q = q.Where("store_id = ?", f.StoreID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Scopes(filter).Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	items := []model.Order{}
	offset := (f.Page - 1) * f.Limit
	if err := hydrate(r.db.WithContext(ctx)).Scopes(filter).
		Order("created_at desc").Order("id desc").
		Limit(f.Limit).Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *OrderGormRepository) Stats(ctx context.Context, storeID string) (repo.OrderStats, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}

	var row struct {
		Count   int64
		Revenue decimal.Decimal
	}
	if err := q.Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").Scan(&row).Error; err != nil {
		return repo.OrderStats{}, err
	}
	return repo.OrderStats{Count: row.Count, Revenue: row.Revenue}, nil
}
