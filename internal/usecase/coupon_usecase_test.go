package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/model"
	"storefront/internal/notify"
	repo "storefront/internal/repository"
)

func TestCouponRegistry_Lookup(t *testing.T) {
	coupons := new(CouponRepoMock)
	reg := NewCouponRegistry(coupons)
	reg.now = func() time.Time { return fixedNow }

	coupons.On("FindActive", mock.Anything, "SPRING5", fixedNow).
		Return(model.Coupon{Code: "SPRING5", Discount: 5, Description: "spring"}, nil)
	coupons.On("FindActive", mock.Anything, "OLD", fixedNow).
		Return(model.Coupon{}, repo.ErrNotFound)

	d, err := reg.Lookup(context.Background(), "SPRING5")
	require.NoError(t, err)
	assert.Equal(t, coupon.Descriptor{Code: "SPRING5", Discount: 5, Description: "spring"}, d)

	_, err = reg.Lookup(context.Background(), "OLD")
	assert.ErrorIs(t, err, coupon.ErrInvalidCoupon)
}

func TestCouponVerify(t *testing.T) {
	coupons := new(CouponRepoMock)
	eval := coupon.NewEvaluator(coupon.Chain{coupon.DefaultStatic(), NewCouponRegistry(coupons)})
	uc := NewCouponUsecase(coupons, eval, new(SubmitterMock), zap.NewNop())
	ctx := context.Background()

	coupons.On("FindActive", mock.Anything, "NOPE", mock.Anything).Return(model.Coupon{}, repo.ErrNotFound)

	d, err := uc.Verify(ctx, " save10 ")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Discount)

	_, err = uc.Verify(ctx, "nope")
	he := requireHTTPError(t, err, http.StatusBadRequest, KindBusinessRule)
	assert.Equal(t, "invalid coupon", he.Message)

	_, err = uc.Verify(ctx, "")
	requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
}

func TestCouponCreate_UppercasesAndSchedulesExpiry(t *testing.T) {
	coupons := new(CouponRepoMock)
	sub := new(SubmitterMock)
	uc := NewCouponUsecase(coupons, staticEvaluator(), sub, zap.NewNop())
	uc.now = func() time.Time { return fixedNow }

	exp := fixedNow.Add(72 * time.Hour)
	coupons.On("Create", mock.Anything, mock.MatchedBy(func(c model.Coupon) bool {
		return c.Code == "SPRING5" && c.Discount == 5 && c.ExpiresAt.Equal(exp)
	})).Return(model.Coupon{Code: "SPRING5", Discount: 5, ExpiresAt: exp}, nil)
	sub.On("Submit", mock.Anything, notify.NewCouponExpired("SPRING5", exp)).Return(nil)

	five := 5
	c, err := uc.Create(context.Background(), CouponCreateRequest{
		Code: "spring5", Description: "spring sale", Discount: &five, ExpiresAt: exp,
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING5", c.Code)
	sub.AssertExpectations(t)
}

func TestCouponCreate_NotifierFailureIsNotSurfaced(t *testing.T) {
	coupons := new(CouponRepoMock)
	sub := new(SubmitterMock)
	uc := NewCouponUsecase(coupons, staticEvaluator(), sub, zap.NewNop())

	exp := time.Now().Add(time.Hour)
	coupons.On("Create", mock.Anything, mock.Anything).Return(model.Coupon{Code: "X1", ExpiresAt: exp}, nil)
	sub.On("Submit", mock.Anything, mock.Anything).Return(notify.ErrQueueFull)

	ten := 10
	_, err := uc.Create(context.Background(), CouponCreateRequest{Code: "x1", Description: "d", Discount: &ten, ExpiresAt: exp})
	require.NoError(t, err)
}

func TestCouponCreate_Validation(t *testing.T) {
	uc := NewCouponUsecase(new(CouponRepoMock), staticEvaluator(), new(SubmitterMock), zap.NewNop())
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	over := 101

	_, err := uc.Create(ctx, CouponCreateRequest{Description: "d", Discount: &over, ExpiresAt: exp})
	he := requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
	assert.Equal(t, "code is required", he.Message)

	_, err = uc.Create(ctx, CouponCreateRequest{Code: "A", Description: "d", Discount: &over, ExpiresAt: exp})
	he = requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
	assert.Equal(t, "discount must be between 0 and 100", he.Message)

	_, err = uc.Create(ctx, CouponCreateRequest{Code: "A", Description: "d", ExpiresAt: exp})
	he = requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
	assert.Equal(t, "discount is required", he.Message)
}

func TestCouponCreate_Duplicate(t *testing.T) {
	coupons := new(CouponRepoMock)
	sub := new(SubmitterMock)
	uc := NewCouponUsecase(coupons, staticEvaluator(), sub, zap.NewNop())

	coupons.On("Create", mock.Anything, mock.Anything).Return(model.Coupon{}, errors.Wrap(repo.ErrDuplicate, "coupons_pkey"))

	ten := 10
	_, err := uc.Create(context.Background(), CouponCreateRequest{Code: "A", Description: "d", Discount: &ten, ExpiresAt: time.Now()})
	requireHTTPError(t, err, http.StatusBadRequest, KindBusinessRule)
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCouponCreate_StaticCodeIsTaken(t *testing.T) {
	coupons := new(CouponRepoMock)
	sub := new(SubmitterMock)
	uc := NewCouponUsecase(coupons, staticEvaluator(), sub, zap.NewNop())

	fifty := 50
	_, err := uc.Create(context.Background(), CouponCreateRequest{
		Code: " save10 ", Description: "half off", Discount: &fifty, ExpiresAt: time.Now().Add(time.Hour),
	})
	he := requireHTTPError(t, err, http.StatusBadRequest, KindBusinessRule)
	assert.Equal(t, "coupon code already exists", he.Message)
	coupons.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCouponDelete(t *testing.T) {
	coupons := new(CouponRepoMock)
	uc := NewCouponUsecase(coupons, staticEvaluator(), new(SubmitterMock), zap.NewNop())

	coupons.On("Delete", mock.Anything, "SPRING5").Return(nil)
	coupons.On("Delete", mock.Anything, "GONE").Return(repo.ErrNotFound)

	require.NoError(t, uc.Delete(context.Background(), "spring5"))

	err := uc.Delete(context.Background(), "gone")
	requireHTTPError(t, err, http.StatusNotFound, KindNotFound)

	err = uc.Delete(context.Background(), "")
	requireHTTPError(t, err, http.StatusBadRequest, KindValidation)
}
