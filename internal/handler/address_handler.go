package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

func (h *AddressHandler) RegisterRoutes(api *echo.Group, mw Middlewares) {
	g := api.Group("/address", mw.Auth)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("", h.Delete)
}

func (h *AddressHandler) List(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	list, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"addresses": list})
}

func (h *AddressHandler) Create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	var req usecase.AddressCreateRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	created, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Address saved successfully",
		"address": created,
	})
}

// DELETE /address?id=
func (h *AddressHandler) Delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	if err := h.uc.Delete(c.Request().Context(), userID, c.QueryParam("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}
