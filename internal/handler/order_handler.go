package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 注文APIは認証なし（呼び出し側が userId を渡す）
func (h *OrderHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/orders")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/progress", h.progress)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.CreateOrderInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	order, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	page, limit, err := usecase.ParsePaging(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListOrdersInput{
		UserID:  c.QueryParam("userId"),
		StoreID: c.QueryParam("storeId"),
		Status:  c.QueryParam("status"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	order, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"order": order})
}

func (h *OrderHandler) progress(c echo.Context) error {
	out, err := h.uc.Progress(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
