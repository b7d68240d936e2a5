package usecase

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra/media"
)

// クーポン照合
type CouponEvaluator interface {
	Evaluate(ctx context.Context, raw string) (coupon.Descriptor, error)
}

// 画像の保存先。公開URLを返す
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// アップロードの拒否は400、それ以外は500
func uploadErr(err error) error {
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		return Validation("only image files are allowed")
	case errors.Is(err, media.ErrTooLarge):
		return Validation("image is too large")
	default:
		return Internal(errors.Wrap(err, "upload image"))
	}
}

type OrderMetrics interface {
	OrderPlaced(ctx context.Context, paymentMethod string, couponUsed bool)
	StatusAdvanced(ctx context.Context, to string)
}

type CartMetrics interface {
	CartExcluded(ctx context.Context, n int)
}

// IDGenerator は新しい主キーを返す
type IDGenerator func() string

func NewUUID() string { return uuid.NewString() }

// 形式が不正なIDはDBに投げず「存在しない」として扱う
func isID(s string) bool { return uuid.Validate(s) == nil }
