package middleware

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/usecase"
)

const (
	CtxUserIDKey   = "user_id"   // string (uuid)
	CtxUserRoleKey = "user_role" // string
	CtxStoreKey    = "store"     // model.Store（SellerGuard が積む）
)

// bearerAuth用のJWT検証ミドルウェア。
// 失敗時は usecase のエラーを返し、描画は ErrorHandler に任せる。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return usecase.Unauthorized()
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return usecase.Unauthorized()
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return usecase.Unauthorized()
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return usecase.Unauthorized()
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return usecase.Unauthorized()
			}

			userID, err := parseString(claims["sub"])
			if err != nil || userID == "" {
				return usecase.Unauthorized()
			}

			//roleを取り出す（USER/ADMIN）
			role, err := parseString(claims["role"])
			if err != nil || role == "" {
				return usecase.Unauthorized()
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, role)

			return next(c)
		}
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
