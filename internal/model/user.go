package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated user of the tracker.
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	// Username is an optional secondary handle; NULL rows do not collide on
	// the unique index.
	Username     *string   `json:"username,omitempty" gorm:"uniqueIndex;size:50"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
