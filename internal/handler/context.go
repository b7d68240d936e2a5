package handler

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
)

// AuthJWT が積んだユーザーID
func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	return id, ok && id != ""
}

// SellerGuard が積んだ店舗
func getStoreFromContext(c echo.Context) (model.Store, bool) {
	s, ok := c.Get(middleware.CtxStoreKey).(model.Store)
	return s, ok
}

// Middlewares はルート登録時に使う認可の組
type Middlewares struct {
	Auth   echo.MiddlewareFunc
	Admin  echo.MiddlewareFunc
	Seller echo.MiddlewareFunc
}
