package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Coupon{}, mapErr(err)
	}
	return c, nil
}

func (r *CouponGormRepository) List(ctx context.Context) ([]model.Coupon, error) {
	coupons := []model.Coupon{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *CouponGormRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) FindActive(ctx context.Context, code string, now time.Time) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND expires_at > ?", code, now).
		First(&c).Error
	if err != nil {
		return model.Coupon{}, mapErr(err)
	}
	return c, nil
}
