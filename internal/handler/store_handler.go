package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// 出店申請・公開ページ・出品者向けAPI
type StoreHandler struct {
	stores     *usecase.StoreUsecase
	products   *usecase.ProductUsecase
	orders     *usecase.StoreOrderUsecase
	dashboards *usecase.DashboardUsecase
}

func NewStoreHandler(
	stores *usecase.StoreUsecase,
	products *usecase.ProductUsecase,
	orders *usecase.StoreOrderUsecase,
	dashboards *usecase.DashboardUsecase,
) *StoreHandler {
	return &StoreHandler{stores: stores, products: products, orders: orders, dashboards: dashboards}
}

func (h *StoreHandler) RegisterRoutes(api *echo.Group, mw Middlewares) {
	g := api.Group("/store")
	g.GET("/data", h.data)
	g.POST("/create", h.create, mw.Auth)

	seller := g.Group("", mw.Auth, mw.Seller)
	seller.POST("/product", h.createProduct)
	seller.GET("/product", h.listProducts)
	seller.POST("/stock-toggle", h.toggleStock)
	seller.GET("/orders", h.listOrders)
	seller.PUT("/orders/:id/status", h.advanceStatus)
	seller.GET("/dashboard", h.dashboard)
}

// multipart のファイルを開く。閉じるのは呼び出し側
func openFile(fh *multipart.FileHeader) (usecase.FileInput, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return usecase.FileInput{}, nil, usecase.Validation("invalid file")
	}
	return usecase.FileInput{Filename: fh.Filename, Body: f}, f, nil
}

func (h *StoreHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	in := usecase.CreateStoreInput{
		Name:        c.FormValue("name"),
		Username:    c.FormValue("username"),
		Description: c.FormValue("description"),
		Email:       c.FormValue("email"),
		Contact:     c.FormValue("contact"),
		Address:     c.FormValue("address"),
	}
	if fh, err := c.FormFile("image"); err == nil {
		img, closer, err := openFile(fh)
		if err != nil {
			return writeError(c, err)
		}
		defer closer.Close()
		in.Image = &img
	}

	out, err := h.stores.Create(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	// 申請済みなら状態だけ返す
	if out.Existing {
		return c.JSON(http.StatusOK, map[string]any{"status": out.Store.Status})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "applied, waiting for approval",
		"store":   out.Store,
	})
}

// GET /store/data?username=
func (h *StoreHandler) data(c echo.Context) error {
	page, err := h.stores.Page(c.Request().Context(), c.QueryParam("username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *StoreHandler) createProduct(c echo.Context) error {
	store, _ := getStoreFromContext(c)

	in := usecase.CreateProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		MRP:         c.FormValue("mrp"),
		Price:       c.FormValue("price"),
		Category:    c.FormValue("category"),
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			img, closer, err := openFile(fh)
			if err != nil {
				return writeError(c, err)
			}
			defer closer.Close()
			in.Images = append(in.Images, img)
		}
	}

	p, err := h.products.Create(c.Request().Context(), store.ID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Product added successfully",
		"product": p,
	})
}

func (h *StoreHandler) listProducts(c echo.Context) error {
	store, _ := getStoreFromContext(c)
	items, err := h.products.ListForStore(c.Request().Context(), store.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": items})
}

func (h *StoreHandler) toggleStock(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	store, _ := getStoreFromContext(c)

	var req usecase.StockToggleInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.products.ToggleStock(c.Request().Context(), userID, store.ID, req)
	if err != nil {
		return writeError(c, err)
	}

	state := "disabled"
	if p.InStock {
		state = "enabled"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Stock " + state + " successfully",
		"product": p,
	})
}

func (h *StoreHandler) listOrders(c echo.Context) error {
	store, _ := getStoreFromContext(c)

	page, limit, err := usecase.ParsePaging(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.List(c.Request().Context(), store.ID, usecase.ListOrdersInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) advanceStatus(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	store, _ := getStoreFromContext(c)

	var req usecase.AdvanceStatusInput
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	o, err := h.orders.AdvanceStatus(c.Request().Context(), userID, store.ID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Order status updated",
		"order":   o,
	})
}

func (h *StoreHandler) dashboard(c echo.Context) error {
	store, _ := getStoreFromContext(c)
	out, err := h.dashboards.Seller(c.Request().Context(), store.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
