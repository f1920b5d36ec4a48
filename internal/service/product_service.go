package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"calorista/internal/cache"
	apperrors "calorista/internal/errors"
	"calorista/internal/model"
	"calorista/internal/repository"
)

const (
	// localSearchLimit caps how many locally cached rows a search returns.
	localSearchLimit = 20
	// productCacheTTL bounds the Redis hot tier; the MySQL tier never expires.
	productCacheTTL = time.Hour
)

// ProductLookup is the outbound product API, already rate limited. A nil
// product with nil error means "unknown upstream".
type ProductLookup interface {
	FetchByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	SearchByQuery(ctx context.Context, query string) ([]model.Product, error)
}

// ProductService resolves products cache-aside: Redis, then MySQL, then the
// external lookup, persisting on the way back.
type ProductService interface {
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	// Search returns matching products and whether they came from the local
	// store. Local matches short-circuit the remote search entirely.
	Search(ctx context.Context, query string) ([]model.Product, bool, error)
}

type productService struct {
	repo   repository.ProductRepository
	lookup ProductLookup
	cache  *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, lookup ProductLookup, cache *cache.Client) ProductService {
	return &productService{
		repo:   repo,
		lookup: lookup,
		cache:  cache,
	}
}

func (s *productService) cacheKey(barcode string) string {
	return fmt.Sprintf("product:barcode:%s", barcode)
}

// GetByBarcode returns the product for a barcode, fetching and persisting it
// from the external API on a local miss. A barcode present locally never
// triggers an outbound call.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var cached model.Product
	if hit, _ := s.cache.GetJSON(ctx, s.cacheKey(barcode), &cached); hit {
		return &cached, nil
	}

	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err == nil {
		_ = s.cache.SetJSON(ctx, s.cacheKey(barcode), product, productCacheTTL)
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find product: %w", err)
	}

	fetched, err := s.lookup.FetchByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	if fetched == nil {
		return nil, apperrors.ErrProductNotFound
	}

	if err := s.repo.Create(ctx, fetched); err != nil {
		// A concurrent miss may have inserted the same barcode first; the
		// unique index is the arbiter, so re-read and serve that row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.repo.FindByBarcode(ctx, barcode); findErr == nil {
				fetched = existing
			}
		} else {
			return nil, fmt.Errorf("persist product: %w", err)
		}
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(barcode), fetched, productCacheTTL)
	return fetched, nil
}

// Search looks for query in locally cached names and brands first; only a
// zero-match result consults the external API, whose results are persisted
// best effort and returned as-is.
func (s *productService) Search(ctx context.Context, query string) ([]model.Product, bool, error) {
	local, err := s.repo.SearchByNameOrBrand(ctx, query, localSearchLimit)
	if err != nil {
		return nil, false, fmt.Errorf("search products: %w", err)
	}
	if len(local) > 0 {
		return local, true, nil
	}

	remote, err := s.lookup.SearchByQuery(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	for i := range remote {
		// Products without a barcode have no natural key and are returned
		// without being persisted.
		if remote[i].Barcode == "" {
			continue
		}
		if _, err := s.repo.FindByBarcode(ctx, remote[i].Barcode); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err := s.repo.Create(ctx, &remote[i]); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("persist product %s: %w", remote[i].Barcode, err)
		}
	}

	return remote, false, nil
}
