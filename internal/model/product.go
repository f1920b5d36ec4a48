package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a food item keyed by barcode, either inserted locally or
// normalized from an Open Food Facts response. Macros are per 100g and each
// may be absent upstream. Rows never expire: nutrition facts for a given
// barcode are treated as immutable.
type Product struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Barcode  string    `json:"barcode" gorm:"uniqueIndex;size:64;not null"`
	Name     string    `json:"name" gorm:"size:255;not null"`
	Brand    *string   `json:"brand,omitempty" gorm:"size:255"`
	Calories *float64  `json:"calories_per_100g,omitempty" gorm:"column:calories_per_100g"`
	Protein  *float64  `json:"protein_per_100g,omitempty" gorm:"column:protein_per_100g"`
	Fat      *float64  `json:"fat_per_100g,omitempty" gorm:"column:fat_per_100g"`
	Carbs    *float64  `json:"carbohydrates_per_100g,omitempty" gorm:"column:carbohydrates_per_100g"`
	Category *string   `json:"category,omitempty" gorm:"size:512"`
	ImageURL *string   `json:"image_url,omitempty" gorm:"size:1024"`

	LastUpdated time.Time `json:"last_updated" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and LastUpdated before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now()
	}
	return nil
}
