package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const apiVersion = "2025-10"

// Client talks to the Shopify Admin API.
type Client struct {
	storeURL    string
	accessToken string
	http        *http.Client
}

// NewClient creates a Shopify Admin API client for the given store.
func NewClient(storeURL, accessToken string) *Client {
	return &Client{
		storeURL:    storeURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type productImage struct {
	Src string `json:"src"`
}

type productVariant struct {
	Price string `json:"price"`
}

type productPayload struct {
	Title    string           `json:"title"`
	Variants []productVariant `json:"variants"`
	Images   []productImage   `json:"images"`
}

type createProductRequest struct {
	Product productPayload `json:"product"`
}

type createProductResponse struct {
	Product struct {
		ID int64 `json:"id"`
	} `json:"product"`
}

// CreateProduct mirrors a product to Shopify and returns the Shopify product
// id.
func (c *Client) CreateProduct(ctx context.Context, name string, price decimal.Decimal, imageURL *string) (string, error) {
	payload := createProductRequest{
		Product: productPayload{
			Title:    name,
			Variants: []productVariant{{Price: price.String()}},
			Images:   []productImage{},
		},
	}
	if imageURL != nil && *imageURL != "" {
		payload.Product.Images = append(payload.Product.Images, productImage{Src: *imageURL})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal product payload: %w", err)
	}

	url := fmt.Sprintf("%s/admin/api/%s/products.json", c.storeURL, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build product request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create shopify product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("shopify returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read shopify response: %w", err)
	}

	var created createProductResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("parse shopify response: %w", err)
	}
	if created.Product.ID == 0 {
		return "", fmt.Errorf("shopify response missing product id")
	}

	return strconv.FormatInt(created.Product.ID, 10), nil
}
