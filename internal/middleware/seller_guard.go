package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

// StoreResolver はログインユーザーの承認済み店舗を引く
type StoreResolver interface {
	SellerStore(ctx context.Context, userID string) (model.Store, error)
}

// SellerGuard は承認済み店舗の持ち主だけを通し、店舗を context に積む。
// AuthJWT の後に置く。
func SellerGuard(stores StoreResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(string)
			if !ok || userID == "" {
				return usecase.Unauthorized()
			}

			store, err := stores.SellerStore(c.Request().Context(), userID)
			if err != nil {
				return err
			}

			c.Set(CtxStoreKey, store)
			return next(c)
		}
	}
}
