package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"shopgate/internal/auth"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/service"
)

// ProductHandler handles product and order endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents a product creation request.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required"`
	SalesCount int             `json:"sales_count"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	ImageURL   *string         `json:"image_url,omitempty"`
}

// CreateOrderRequest represents an order creation request.
type CreateOrderRequest struct {
	LineItems []service.LineItem `json:"line_items" validate:"required,min=1,dive"`
}

// ListAll godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {object} map[string][]model.Product
// @Router /all-products [get]
func (h *ProductHandler) ListAll(c echo.Context) error {
	products, err := h.productService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]model.Product{"products": products})
}

// ListMine godoc
// @Summary List the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Router /my-products [get]
func (h *ProductHandler) ListMine(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}

	products, err := h.productService.ListMine(c.Request().Context(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]model.Product{"products": products})
}

// Create godoc
// @Summary Create a product, mirrored to Shopify
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product payload"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}
	if err := auth.RequirePermission(p, model.PermPostProducts); err != nil {
		return err
	}

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Publishing an image is a separate grant.
	if req.ImageURL != nil && *req.ImageURL != "" {
		if err := auth.RequirePermission(p, model.PermPublishImage); err != nil {
			return err
		}
	}

	product, err := h.productService.Create(c.Request().Context(), p.User.ID, req.Name, req.Price, req.SalesCount, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrShopifyMirror) {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "product created",
		"product": product,
	})
}

// Bestsellers godoc
// @Summary List the caller's products by sales count
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /my-bestsellers [get]
func (h *ProductHandler) Bestsellers(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}
	if err := auth.RequirePermission(p, model.PermPostProducts); err != nil {
		return err
	}

	products, err := h.productService.Bestsellers(c.Request().Context(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]model.Product{"bestsellers": products})
}

// CreateOrder godoc
// @Summary Create an order, bumping product sales counts
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /create-order [post]
func (h *ProductHandler) CreateOrder(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}
	if err := auth.RequirePermission(p, model.PermPostProducts); err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updates, err := h.productService.CreateOrder(c.Request().Context(), req.LineItems)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":          "order created",
		"updated_products": updates,
	})
}
