package models

import "time"

// Item types
const (
	ItemTypeMovie  = "movie"
	ItemTypeTVShow = "tvshow"
	ItemTypeGame   = "game"
)

// ValidItemType reports whether t is one of the catalogued media kinds
func ValidItemType(t string) bool {
	return t == ItemTypeMovie || t == ItemTypeTVShow || t == ItemTypeGame
}

// Item is a single catalogued title (movie, TV show or game).
// PlatformID/MediaTypeID reference the lookup tables; the references are
// declared but not enforced, so deleting a lookup row leaves them dangling.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	PlatformID  *uint     `json:"platform_id"`
	MediaTypeID *uint     `json:"media_type_id"`
	CoverURL    string    `json:"cover_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemCollection links an item to a collection. Rows have no lifecycle of
// their own: they are replaced wholesale when the owning item is updated.
type ItemCollection struct {
	ItemID       uint `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	CollectionID uint `gorm:"primaryKey;autoIncrement:false" json:"collection_id"`
}

func (ItemCollection) TableName() string { return "item_collections" }

// ItemTag links an item to a tag.
type ItemTag struct {
	ItemID uint `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
}

func (ItemTag) TableName() string { return "item_tags" }
