package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shopgate/internal/service"
	"shopgate/internal/shopify"
)

// WebhookHandler handles inbound Shopify webhooks.
type WebhookHandler struct {
	productService service.ProductService
	webhookSecret  string
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(productService service.ProductService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		productService: productService,
		webhookSecret:  webhookSecret,
	}
}

type webhookLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type salesWebhookPayload struct {
	LineItems []webhookLineItem `json:"line_items"`
}

// ShopifySales godoc
// @Summary Record sales reported by a Shopify order webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /webhooks/shopify-sales [post]
func (h *WebhookHandler) ShopifySales(c echo.Context) error {
	// The signature covers the exact raw bytes, so the body must be read
	// before any binding or re-serialization.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	signature := c.Request().Header.Get(shopify.SignatureHeader)
	if err := shopify.VerifySignature(body, signature, h.webhookSecret); err != nil {
		return err
	}

	var payload salesWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook payload")
	}

	ctx := c.Request().Context()
	for _, item := range payload.LineItems {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		shopifyID := strconv.FormatInt(item.ProductID, 10)
		if err := h.productService.ApplySale(ctx, shopifyID, quantity); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
