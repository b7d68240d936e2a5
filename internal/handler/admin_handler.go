package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// /admin 配下（JWT必須 + ADMIN限定）
type AdminHandler struct {
	stores     *usecase.StoreUsecase
	dashboards *usecase.DashboardUsecase
}

func NewAdminHandler(stores *usecase.StoreUsecase, dashboards *usecase.DashboardUsecase) *AdminHandler {
	return &AdminHandler{stores: stores, dashboards: dashboards}
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group, mw Middlewares) {
	admin := api.Group("/admin", mw.Auth, mw.Admin)

	admin.GET("/approve-store", h.listForReview)
	admin.POST("/approve-store", h.review)
	admin.POST("/toggle-store", h.toggle)
	admin.GET("/stores", h.listApproved)
	admin.GET("/dashboard", h.dashboard)
}

func (h *AdminHandler) listForReview(c echo.Context) error {
	list, err := h.stores.ListForReview(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"stores": list})
}

func (h *AdminHandler) review(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	var req usecase.ReviewStoreInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	s, err := h.stores.Review(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": string(s.Status) + " successfully",
		"store":   s,
	})
}

// 本文は {storeId} のみ。別名のキーは受け付けない
func (h *AdminHandler) toggle(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	var req usecase.ToggleStoreInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	s, msg, err := h.stores.Toggle(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": msg,
		"store":   s,
	})
}

func (h *AdminHandler) listApproved(c echo.Context) error {
	list, err := h.stores.ListApproved(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"stores": list})
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	out, err := h.dashboards.Admin(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"dashboardData": out})
}
