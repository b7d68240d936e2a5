package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type CouponRepository interface {
	// code 重複時は ErrDuplicate
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Delete(ctx context.Context, code string) error

	// now 時点で期限切れでないものだけ
	FindActive(ctx context.Context, code string, now time.Time) (model.Coupon, error)
}
