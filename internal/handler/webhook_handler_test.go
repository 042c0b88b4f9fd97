package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/service"
	"shopgate/internal/shopify"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) ListMine(ctx context.Context, creatorID uint) ([]model.Product, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, creatorID uint, name string, price decimal.Decimal, salesCount int, imageURL *string) (*model.Product, error) {
	args := m.Called(ctx, creatorID, name, price, salesCount, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Bestsellers(ctx context.Context, creatorID uint) ([]model.Product, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) CreateOrder(ctx context.Context, items []service.LineItem) ([]service.OrderUpdate, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.OrderUpdate), args.Error(1)
}

func (m *MockProductService) ApplySale(ctx context.Context, shopifyID string, quantity int) error {
	args := m.Called(ctx, shopifyID, quantity)
	return args.Error(0)
}

const webhookTestSecret = "webhook-secret"

func newWebhookContext(body string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify-sales", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWebhookHandler_ShopifySales(t *testing.T) {
	products := new(MockProductService)
	products.On("ApplySale", mock.Anything, "42", 2).Return(nil)
	products.On("ApplySale", mock.Anything, "43", 1).Return(nil)

	// The second item has no quantity field and defaults to one.
	body := `{"line_items":[{"product_id":42,"quantity":2},{"product_id":43}]}`
	c, rec := newWebhookContext(body, map[string]string{
		shopify.SignatureHeader: shopify.ComputeSignature([]byte(body), webhookTestSecret),
	})

	h := NewWebhookHandler(products, webhookTestSecret)
	err := h.ShopifySales(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	products.AssertExpectations(t)
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	products := new(MockProductService)
	body := `{"line_items":[]}`
	c, _ := newWebhookContext(body, nil)

	h := NewWebhookHandler(products, webhookTestSecret)
	err := h.ShopifySales(c)

	assert.ErrorIs(t, err, apperrors.ErrSignatureMissing)
	products.AssertNotCalled(t, "ApplySale", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	products := new(MockProductService)
	body := `{"line_items":[{"product_id":42,"quantity":2}]}`
	c, _ := newWebhookContext(body, map[string]string{
		shopify.SignatureHeader: shopify.ComputeSignature([]byte(body), "wrong-secret"),
	})

	h := NewWebhookHandler(products, webhookTestSecret)
	err := h.ShopifySales(c)

	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
	products.AssertNotCalled(t, "ApplySale", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	products := new(MockProductService)
	body := `not json`
	c, _ := newWebhookContext(body, map[string]string{
		shopify.SignatureHeader: shopify.ComputeSignature([]byte(body), webhookTestSecret),
	})

	h := NewWebhookHandler(products, webhookTestSecret)
	err := h.ShopifySales(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
