package models

import "time"

// Collection groups items (Marvel, LOTR, etc.) with an optional cover image.
type Collection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// CoverURL is the asset-store relative path of the cover image, empty when none
	CoverURL  string    `json:"cover_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
