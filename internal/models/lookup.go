package models

// Platform is a lookup entity for where an item runs or plays (PC, PS5, Blu-ray player).
type Platform struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// MediaType is a lookup entity for the physical or digital format of an item.
type MediaType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Tag is a free-form label attached to items.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// LookupRow is the common row shape shared by platforms, media_types and tags.
// The three tables are structurally identical, so list/create/delete operate
// on this shape with the table chosen at call time.
type LookupRow struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
