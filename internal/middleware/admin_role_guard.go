package middleware

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

//contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return usecase.Unauthorized()
			}

			//USERは拒否、ADMINだけ許可
			if role != string(model.RoleAdmin) {
				return usecase.Forbidden("not authorized")
			}

			return next(c)
		}
	}
}
