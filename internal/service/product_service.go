package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopgate/internal/cache"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

const (
	productCacheKey = "products:all"
	productCacheTTL = 5 * time.Minute
)

// ErrShopifyMirror is returned when mirroring a product to Shopify fails.
var ErrShopifyMirror = errors.New("shopify product mirror failed")

// ShopifyMirror mirrors product creation to the commerce API.
type ShopifyMirror interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, imageURL *string) (string, error)
}

// LineItem is one ordered product with a quantity.
type LineItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// OrderUpdate reports the new sales count of a product after an order.
type OrderUpdate struct {
	ProductID  uint `json:"product_id"`
	SalesCount int  `json:"sales_count"`
}

// ProductService exposes product domain operations.
type ProductService interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	ListMine(ctx context.Context, creatorID uint) ([]model.Product, error)
	Create(ctx context.Context, creatorID uint, name string, price decimal.Decimal, salesCount int, imageURL *string) (*model.Product, error)
	Bestsellers(ctx context.Context, creatorID uint) ([]model.Product, error)
	CreateOrder(ctx context.Context, items []LineItem) ([]OrderUpdate, error)
	ApplySale(ctx context.Context, shopifyID string, quantity int) error
}

type productService struct {
	products repository.ProductRepository
	shopify  ShopifyMirror
	cache    *cache.Client
}

// NewProductService builds a ProductService with repository, mirror and cache.
func NewProductService(products repository.ProductRepository, shopify ShopifyMirror, cacheClient *cache.Client) ProductService {
	return &productService{
		products: products,
		shopify:  shopify,
		cache:    cacheClient,
	}
}

// ListAll returns every product, served from cache when possible.
func (s *productService) ListAll(ctx context.Context) ([]model.Product, error) {
	if data, err := s.cache.Get(ctx, productCacheKey); err == nil && data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	if payload, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, productCacheKey, payload, productCacheTTL)
	}
	return products, nil
}

func (s *productService) ListMine(ctx context.Context, creatorID uint) ([]model.Product, error) {
	products, err := s.products.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return products, nil
}

// Create mirrors the product to Shopify first, then stores it with the
// returned shopify id. A mirror failure aborts the creation.
func (s *productService) Create(ctx context.Context, creatorID uint, name string, price decimal.Decimal, salesCount int, imageURL *string) (*model.Product, error) {
	shopifyID, err := s.shopify.CreateProduct(ctx, name, price, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShopifyMirror, err)
	}

	product := &model.Product{
		Name:       name,
		SalesCount: salesCount,
		ShopifyID:  &shopifyID,
		Price:      price,
		ImageURL:   imageURL,
		CreatedBy:  creatorID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	_ = s.cache.Delete(ctx, productCacheKey)
	return product, nil
}

func (s *productService) Bestsellers(ctx context.Context, creatorID uint) ([]model.Product, error) {
	products, err := s.products.BestsellersByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return products, nil
}

// CreateOrder bumps sales counts for each line item. Unknown product ids are
// skipped rather than failing the whole order.
func (s *productService) CreateOrder(ctx context.Context, items []LineItem) ([]OrderUpdate, error) {
	updates := make([]OrderUpdate, 0, len(items))
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperrors.ErrStoreUnavailable
		}

		if err := s.products.IncrementSales(ctx, product.ID, item.Quantity); err != nil {
			return nil, apperrors.ErrStoreUnavailable
		}
		updates = append(updates, OrderUpdate{
			ProductID:  product.ID,
			SalesCount: product.SalesCount + item.Quantity,
		})
	}

	_ = s.cache.Delete(ctx, productCacheKey)
	return updates, nil
}

// ApplySale records a webhook sale against the product with the given
// shopify id. Unknown ids are ignored.
func (s *productService) ApplySale(ctx context.Context, shopifyID string, quantity int) error {
	product, err := s.products.FindByShopifyID(ctx, shopifyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.ErrStoreUnavailable
	}

	if err := s.products.IncrementSales(ctx, product.ID, quantity); err != nil {
		return apperrors.ErrStoreUnavailable
	}
	_ = s.cache.Delete(ctx, productCacheKey)
	return nil
}
