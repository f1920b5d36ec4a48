package repository

import (
	"context"

	"gorm.io/gorm"

	"calorista/internal/model"
)

// ProductRepository defines product persistence operations. The barcode is
// the natural key; a unique index backs it.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	SearchByNameOrBrand(ctx context.Context, query string, limit int) ([]model.Product, error)
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

func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchByNameOrBrand matches query as a substring of the name or brand.
func (r *productRepository) SearchByNameOrBrand(ctx context.Context, query string, limit int) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("name LIKE ? OR brand LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
