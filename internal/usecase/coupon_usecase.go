package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/model"
	"storefront/internal/notify"
	repo "storefront/internal/repository"
)

// CouponRegistry は DB のクーポン表を coupon.Registry として引く
type CouponRegistry struct {
	repo repo.CouponRepository
	now  func() time.Time
}

func NewCouponRegistry(r repo.CouponRepository) *CouponRegistry {
	return &CouponRegistry{repo: r, now: time.Now}
}

func (r *CouponRegistry) Lookup(ctx context.Context, code string) (coupon.Descriptor, error) {
	c, err := r.repo.FindActive(ctx, code, r.now())
	if errors.Is(err, repo.ErrNotFound) {
		return coupon.Descriptor{}, coupon.ErrInvalidCoupon
	}
	if err != nil {
		return coupon.Descriptor{}, err
	}
	return coupon.Descriptor{Code: c.Code, Discount: c.Discount, Description: c.Description}, nil
}

type CouponCreateRequest struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Discount    *int      `json:"discount"`
	ForNewUser  bool      `json:"forNewUser"`
	ForMember   bool      `json:"forMember"`
	IsPublic    bool      `json:"isPublic"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type CouponUsecase struct {
	coupons  repo.CouponRepository
	eval     CouponEvaluator
	notifier notify.Submitter
	// 固定コードは照合で先に当たるので、同じコードは登録させない
	reserved coupon.Registry
	lg       *zap.Logger
	now      func() time.Time
}

func NewCouponUsecase(coupons repo.CouponRepository, eval CouponEvaluator, notifier notify.Submitter, lg *zap.Logger) *CouponUsecase {
	return &CouponUsecase{
		coupons:  coupons,
		eval:     eval,
		notifier: notifier,
		reserved: coupon.DefaultStatic(),
		lg:       lg,
		now:      time.Now,
	}
}

// Verify はコードを照合する。見つからなければ400
func (u *CouponUsecase) Verify(ctx context.Context, code string) (coupon.Descriptor, error) {
	if strings.TrimSpace(code) == "" {
		return coupon.Descriptor{}, Validation("code is required")
	}
	d, err := u.eval.Evaluate(ctx, code)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			return coupon.Descriptor{}, Rule("invalid coupon")
		}
		return coupon.Descriptor{}, Internal(err)
	}
	return d, nil
}

// Create はクーポンを登録し、期限到来イベントを非同期で予約する。
// 予約に失敗しても登録は成功として返す。
func (u *CouponUsecase) Create(ctx context.Context, in CouponCreateRequest) (model.Coupon, error) {
	code := coupon.Normalize(in.Code)
	switch {
	case code == "":
		return model.Coupon{}, Validation("code is required")
	case strings.TrimSpace(in.Description) == "":
		return model.Coupon{}, Validation("description is required")
	case in.Discount == nil:
		return model.Coupon{}, Validation("discount is required")
	case *in.Discount < 0 || *in.Discount > 100:
		return model.Coupon{}, Validation("discount must be between 0 and 100")
	case in.ExpiresAt.IsZero():
		return model.Coupon{}, Validation("expiresAt is required")
	}

	if _, err := u.reserved.Lookup(ctx, code); err == nil {
		return model.Coupon{}, Rule("coupon code already exists")
	}

	c, err := u.coupons.Create(ctx, model.Coupon{
		Code:        code,
		Description: strings.TrimSpace(in.Description),
		Discount:    *in.Discount,
		ForNewUser:  in.ForNewUser,
		ForMember:   in.ForMember,
		IsPublic:    in.IsPublic,
		ExpiresAt:   in.ExpiresAt.UTC(),
		CreatedAt:   u.now(),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Coupon{}, Rule("coupon code already exists")
		}
		return model.Coupon{}, Internal(err)
	}

	if err := u.notifier.Submit(ctx, notify.NewCouponExpired(c.Code, c.ExpiresAt)); err != nil {
		u.lg.Warn("coupon expiry event not scheduled",
			zap.String("code", c.Code),
			zap.Error(err),
		)
	}
	return c, nil
}

func (u *CouponUsecase) List(ctx context.Context) ([]model.Coupon, error) {
	list, err := u.coupons.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (u *CouponUsecase) Delete(ctx context.Context, code string) error {
	code = coupon.Normalize(code)
	if code == "" {
		return Validation("code is required")
	}
	if err := u.coupons.Delete(ctx, code); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("coupon not found")
		}
		return Internal(err)
	}
	return nil
}
