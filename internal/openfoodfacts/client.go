// Package openfoodfacts wraps the Open Food Facts public API and normalizes
// its responses into the local product shape.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"calorista/internal/model"
	"calorista/internal/ratelimit"
)

// Upstream quotas: 100 product fetches and 10 searches per minute. The
// limiter windows match the quota's own reset cadence.
const (
	productFetchLimit  = 100
	productSearchLimit = 10
	quotaWindow        = time.Minute

	searchPageSize = 20
	fallbackName   = "Unknown Product"
)

// Client calls the Open Food Facts API. Each operation class is gated by its
// own fixed-window limiter before any network I/O happens.
type Client struct {
	productBaseURL string
	searchURL      string
	httpClient     *http.Client

	fetchLimiter  *ratelimit.Limiter
	searchLimiter *ratelimit.Limiter
}

// New creates a client for the given endpoints.
func New(productBaseURL, searchURL string) *Client {
	return &Client{
		productBaseURL: productBaseURL,
		searchURL:      searchURL,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		fetchLimiter:   ratelimit.New(productFetchLimit, quotaWindow),
		searchLimiter:  ratelimit.New(productSearchLimit, quotaWindow),
	}
}

// offResponse is the envelope of the product endpoint. status != 1 means the
// barcode is unknown upstream.
type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

type offProduct struct {
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	GenericName string         `json:"generic_name"`
	Brands      string         `json:"brands"`
	Categories  string         `json:"categories"`
	ImageURL    string         `json:"image_url"`
	Nutriments  *offNutriments `json:"nutriments"`
}

type offNutriments struct {
	EnergyKcal100g *float64 `json:"energy-kcal_100g"`
	Proteins100g   *float64 `json:"proteins_100g"`
	Fat100g        *float64 `json:"fat_100g"`
	Carbs100g      *float64 `json:"carbohydrates_100g"`
}

// FetchByBarcode looks up a single product. A nil product with nil error
// means the barcode is unknown upstream; that covers non-200 responses,
// status != 1 and a missing product payload. Network and decode failures are
// returned as errors for the caller to surface.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	if err := c.fetchLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/product/%s.json", c.productBaseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", barcode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body offResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", barcode, err)
	}
	if body.Status != 1 || body.Product == nil {
		return nil, nil
	}

	product := mapProduct(*body.Product)
	product.Barcode = barcode
	return &product, nil
}

// SearchByQuery runs a simple free-text search, capped at searchPageSize
// results. A non-200 response yields an empty list, not an error.
func (c *Client) SearchByQuery(ctx context.Context, query string) ([]model.Product, error) {
	if err := c.searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprintf("%d", searchPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body offSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search %q: %w", query, err)
	}

	products := make([]model.Product, 0, len(body.Products))
	for _, p := range body.Products {
		products = append(products, mapProduct(p))
	}
	return products, nil
}

// mapProduct converts the upstream schema to the local shape, preferring
// product_name over generic_name over the literal fallback.
func mapProduct(p offProduct) model.Product {
	name := p.ProductName
	if name == "" {
		name = p.GenericName
	}
	if name == "" {
		name = fallbackName
	}

	product := model.Product{
		Barcode:     p.Code,
		Name:        name,
		Brand:       optional(p.Brands),
		Category:    optional(p.Categories),
		ImageURL:    optional(p.ImageURL),
		LastUpdated: time.Now(),
	}
	if p.Nutriments != nil {
		product.Calories = p.Nutriments.EnergyKcal100g
		product.Protein = p.Nutriments.Proteins100g
		product.Fat = p.Nutriments.Fat100g
		product.Carbs = p.Nutriments.Carbs100g
	}
	return product
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
