package repository

import (
	"context"

	"gorm.io/gorm"

	"shopgate/internal/model"
)

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	List(ctx context.Context) ([]model.Product, error)
	ListByCreator(ctx context.Context, creatorID uint) ([]model.Product, error)
	BestsellersByCreator(ctx context.Context, creatorID uint) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByShopifyID(ctx context.Context, shopifyID string) (*model.Product, error)
	IncrementSales(ctx context.Context, id uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListByCreator(ctx context.Context, creatorID uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("created_by = ?", creatorID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) BestsellersByCreator(ctx context.Context, creatorID uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("sales_count DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByShopifyID(ctx context.Context, shopifyID string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("shopify_id = ?", shopifyID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) IncrementSales(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("sales_count", gorm.Expr("sales_count + ?", quantity)).Error
}
