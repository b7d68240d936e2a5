package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, mapErr(err)
	}
	return p, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return model.Product{}, mapErr(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) ListByStore(ctx context.Context, storeID string, inStockOnly bool) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if inStockOnly {
		tx = tx.Where("in_stock = ?", true)
	}

	products := []model.Product{}
	if err := tx.Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// 公開店舗（approved かつ active）の在庫あり商品
func (r *ProductGormRepository) ListPublic(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = products.store_id").
		Where("products.in_stock = ?", true).
		Where("stores.status = ? AND stores.is_active = ?", model.StoreStatusApproved, true).
		Order("products.created_at desc").Order("products.id desc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) SetInStock(ctx context.Context, id string, inStock bool) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("in_stock", inStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Count(ctx context.Context, storeID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
