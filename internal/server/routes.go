package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/handler"
)

// Handlers はルートに載せるハンドラ一式
type Handlers struct {
	Auth    *handler.AuthHandler
	Address *handler.AddressHandler
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
	Coupon  *handler.CouponHandler
	Product *handler.ProductHandler
	Store   *handler.StoreHandler
	Admin   *handler.AdminHandler
}

// RegisterRoutes は /api 配下にAPIを、直下に運用系を登録する
func RegisterRoutes(e *echo.Echo, h Handlers, mw handler.Middlewares, ops Ops) {
	e.GET("/healthz", health(ops))
	if ops.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(ops.Metrics))
	}
	if ops.MediaDir != "" {
		e.Static(ops.MediaURL, ops.MediaDir)
	}

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api, mw)
	h.Address.RegisterRoutes(api, mw)
	h.Order.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api, mw)
	h.Coupon.RegisterRoutes(api, mw)
	h.Product.RegisterRoutes(api)
	h.Store.RegisterRoutes(api, mw)
	h.Admin.RegisterRoutes(api, mw)
}

func health(ops Ops) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ops.Ping != nil {
			if err := ops.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
