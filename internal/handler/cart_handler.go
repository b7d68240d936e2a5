package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(api *echo.Group, mw Middlewares) {
	g := api.Group("/cart", mw.Auth)
	g.GET("", h.get)
	g.DELETE("", h.clear)
	g.POST("/items/:productId", h.add)
	g.DELETE("/items/:productId", h.remove)
	g.POST("/coupon", h.applyCoupon)
	g.DELETE("/coupon", h.removeCoupon)
	g.POST("/checkout", h.checkout)
}

func (h *CartHandler) get(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	out, err := h.uc.View(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	out, err := h.uc.Add(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) remove(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	out, err := h.uc.Remove(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) applyCoupon(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	var req usecase.ApplyCouponInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ApplyCoupon(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeCoupon(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	out, err := h.uc.RemoveCoupon(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) checkout(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	var req usecase.CheckoutInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	order, err := h.uc.Checkout(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   order,
	})
}
