package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type CouponHandler struct {
	uc *usecase.CouponUsecase
}

func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

type couponVerifyRequest struct {
	Code string `json:"code"`
}

type couponCreateRequest struct {
	Coupon usecase.CouponCreateRequest `json:"coupon"`
}

func (h *CouponHandler) RegisterRoutes(api *echo.Group, mw Middlewares) {
	api.POST("/coupon/verify", h.verify, mw.Auth)

	admin := api.Group("/admin/coupon", mw.Auth, mw.Admin)
	admin.POST("", h.create)
	admin.GET("", h.list)
	admin.DELETE("", h.delete)
}

func (h *CouponHandler) verify(c echo.Context) error {
	var req couponVerifyRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Verify(c.Request().Context(), req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"coupon": d})
}

func (h *CouponHandler) create(c echo.Context) error {
	var req couponCreateRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	created, err := h.uc.Create(c.Request().Context(), req.Coupon)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Coupon added successfully",
		"coupon":  created,
	})
}

func (h *CouponHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"coupons": list})
}

// DELETE /admin/coupon?code=
func (h *CouponHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.QueryParam("code")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Coupon deleted successfully"})
}
