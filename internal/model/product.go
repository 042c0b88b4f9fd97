package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item mirrored to Shopify at creation time.
type Product struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"size:255;not null"`
	SalesCount int             `json:"sales_count" gorm:"default:0"`
	ShopifyID  *string         `json:"shopify_id,omitempty" gorm:"size:64;index"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ImageURL   *string         `json:"image_url,omitempty" gorm:"size:2048"`
	CreatedBy  uint            `json:"created_by" gorm:"index;not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
