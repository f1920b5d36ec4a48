package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal is one logged intake, always scoped to exactly one user. Date is the
// real-world time of the meal, distinct from the audit timestamps.
type Meal struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID   uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Name     string    `json:"name" gorm:"size:255;not null"`
	Calories float64   `json:"calories" gorm:"not null"`
	Protein  float64   `json:"protein" gorm:"not null"`
	Carbs    float64   `json:"carbs" gorm:"column:carbohydrates;not null"`
	Fat      float64   `json:"fat" gorm:"not null"`
	Date     time.Time `json:"date" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
