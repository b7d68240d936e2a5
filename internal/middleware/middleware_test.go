package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

const testUserID = "7b0f2a8e-1c43-4d5e-9f61-2a3b4c5d6e7f"

type okResponse struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	StoreID string `json:"store_id"`
}

type StoreResolverMock struct {
	mock.Mock
}

func (m *StoreResolverMock) SellerStore(ctx context.Context, userID string) (model.Store, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Store), args.Error(1)
}

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func userClaims(sub any, role string) jwt.MapClaims {
	return jwt.MapClaims{"sub": sub, "role": role, "iat": 1, "exp": 9999999999}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(zap.NewNop(), false)
	return e
}

func echoContext(c echo.Context) error {
	out := okResponse{}
	out.UserID, _ = c.Get(middleware.CtxUserIDKey).(string)
	out.Role, _ = c.Get(middleware.CtxUserRoleKey).(string)
	if s, ok := c.Get(middleware.CtxStoreKey).(model.Store); ok {
		out.StoreID = s.ID
	}
	return c.JSON(http.StatusOK, out)
}

func runRequest(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "bad scheme", header: "Token abc.def.ghi"},
		{name: "empty token", header: "Bearer "},
		{name: "bad signature", header: "Bearer " + mustMakeJWT(t, "wrong-secret", userClaims(testUserID, "USER"), jwt.SigningMethodHS256)},
		{name: "wrong alg", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, userClaims(testUserID, "USER"), jwt.SigningMethodHS512)},
		{name: "numeric sub", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, userClaims(123, "USER"), jwt.SigningMethodHS256)},
		{name: "missing role", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": testUserID, "exp": 9999999999}, jwt.SigningMethodHS256)},
		{name: "expired", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": testUserID, "role": "USER", "exp": 1}, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			e.GET("/protected", echoContext, middleware.AuthJWT(cfg))

			rec := runRequest(e, "/protected", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body handler.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "Unauthorized", body.Error)
		})
	}
}

// 正常：ctxに値が入る
func TestAuthJWT_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newEcho()
	e.GET("/protected", echoContext, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, userClaims(testUserID, "USER"), jwt.SigningMethodHS256)
	rec := runRequest(e, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body okResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, "USER", body.Role)
}

func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		role string
		want int
	}{
		{role: "ADMIN", want: http.StatusOK},
		{role: "USER", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			e := newEcho()
			e.GET("/admin", echoContext, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

			raw := mustMakeJWT(t, cfg.JWTSecret, userClaims(testUserID, tt.role), jwt.SigningMethodHS256)
			rec := runRequest(e, "/admin", "Bearer "+raw)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// AuthJWTを通さずに来たら401
func TestAdminRoleGuard_NoRole(t *testing.T) {
	e := newEcho()
	e.GET("/admin", echoContext, middleware.AdminRoleGuard())

	rec := runRequest(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSellerGuard_SetsStore(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	stores := new(StoreResolverMock)
	stores.On("SellerStore", mock.Anything, testUserID).
		Return(model.Store{ID: "store-1", Status: model.StoreStatusApproved}, nil).Once()

	e := newEcho()
	e.GET("/seller", echoContext, middleware.AuthJWT(cfg), middleware.SellerGuard(stores))

	raw := mustMakeJWT(t, cfg.JWTSecret, userClaims(testUserID, "USER"), jwt.SigningMethodHS256)
	rec := runRequest(e, "/seller", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body okResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "store-1", body.StoreID)
	stores.AssertExpectations(t)
}

func TestSellerGuard_NotSeller(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	stores := new(StoreResolverMock)
	stores.On("SellerStore", mock.Anything, testUserID).
		Return(model.Store{}, usecase.Forbidden("not authorized")).Once()

	e := newEcho()
	e.GET("/seller", echoContext, middleware.AuthJWT(cfg), middleware.SellerGuard(stores))

	raw := mustMakeJWT(t, cfg.JWTSecret, userClaims(testUserID, "USER"), jwt.SigningMethodHS256)
	rec := runRequest(e, "/seller", "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not authorized", body.Error)
}

func TestRequestLogger_RendersError(t *testing.T) {
	e := newEcho()
	e.Use(middleware.RequestLogger(zap.NewNop()))
	e.GET("/boom", func(c echo.Context) error {
		return usecase.NotFound("gone")
	})

	rec := runRequest(e, "/boom", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
