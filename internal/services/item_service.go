package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/medialedger/backend/internal/models"
	"github.com/medialedger/backend/pkg/validation"
	"gorm.io/gorm"
)

type ItemService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewItemService(db *gorm.DB, storage *StorageService) *ItemService {
	return &ItemService{db: db, storage: storage}
}

// ItemInput carries the fields of an item create/update request. Image holds
// the raw bytes of an uploaded cover, empty when no upload was made.
type ItemInput struct {
	Title         string
	Type          string
	PlatformID    *uint
	MediaTypeID   *uint
	CollectionIDs []uint
	TagIDs        []uint
	Image         []byte
	ImageName     string
}

// ItemView is the denormalized read model: the item row enriched with its
// lookup names and full tag/collection membership.
type ItemView struct {
	models.Item
	PlatformName  string             `json:"platform_name"`
	MediaTypeName string             `json:"media_type_name"`
	Tags          []models.LookupRow `gorm:"-" json:"tags"`
	Collections   []models.LookupRow `gorm:"-" json:"collections"`
}

func (s *ItemService) itemQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("items AS i").
		Select("i.*, p.name AS platform_name, m.name AS media_type_name").
		Joins("LEFT JOIN platforms p ON p.id = i.platform_id").
		Joins("LEFT JOIN media_types m ON m.id = i.media_type_id")
}

// List returns all items with lookup names and full relation sets.
// Relations are fetched with one query per relation kind and grouped in
// memory, not one pair of queries per item.
func (s *ItemService) List(ctx context.Context) ([]ItemView, error) {
	views := []ItemView{}
	if err := s.itemQuery(ctx).Order("i.id ASC").Scan(&views).Error; err != nil {
		return nil, &StoreError{Op: "fetch items", Err: err}
	}
	if err := s.attachRelations(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetWithRelations returns a single item with its tags and collections
func (s *ItemService) GetWithRelations(ctx context.Context, id uint) (*ItemView, error) {
	views := []ItemView{}
	if err := s.itemQuery(ctx).Where("i.id = ?", id).Scan(&views).Error; err != nil {
		return nil, &StoreError{Op: "fetch item", Err: err}
	}
	if len(views) == 0 {
		return nil, &NotFoundError{Resource: "item"}
	}
	if err := s.attachRelations(ctx, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create inserts the item row and its relation rows in one transaction.
// A staged cover file is removed again when the transaction fails.
func (s *ItemService) Create(ctx context.Context, in ItemInput) (*models.Item, error) {
	title := validation.NormalizeName(in.Title)
	if title == "" {
		return nil, &ValidationError{Message: "title is required"}
	}
	if !models.ValidItemType(in.Type) {
		return nil, &ValidationError{Message: fmt.Sprintf("type must be %q, %q or %q",
			models.ItemTypeMovie, models.ItemTypeTVShow, models.ItemTypeGame)}
	}

	coverURL := ""
	if len(in.Image) > 0 {
		key := s.storage.BuildObjectKey(KindItems, in.ImageName)
		if _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(in.Image)); err != nil {
			return nil, &StoreError{Op: "save cover image", Err: err}
		}
		coverURL = key
	}

	item := &models.Item{
		Title:       title,
		Type:        in.Type,
		PlatformID:  in.PlatformID,
		MediaTypeID: in.MediaTypeID,
		CoverURL:    coverURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return replaceLinks(tx, item.ID, in.CollectionIDs, in.TagIDs, false)
	})
	if err != nil {
		_ = s.storage.Remove(coverURL)
		return nil, &StoreError{Op: "create item", Err: err}
	}
	return item, nil
}

// Update replaces the item fields and rewrites both relation sets wholesale
// (replace-all, not a diff) in one transaction. A newly uploaded cover
// supersedes the previous file, which is deleted after the commit.
func (s *ItemService) Update(ctx context.Context, id uint, in ItemInput) (*models.Item, error) {
	var existing models.Item
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, &StoreError{Op: "fetch item", Err: err}
	}

	title := validation.NormalizeName(in.Title)
	if title == "" {
		return nil, &ValidationError{Message: "title is required"}
	}
	if !models.ValidItemType(in.Type) {
		return nil, &ValidationError{Message: fmt.Sprintf("type must be %q, %q or %q",
			models.ItemTypeMovie, models.ItemTypeTVShow, models.ItemTypeGame)}
	}

	coverURL := existing.CoverURL
	staged := ""
	if len(in.Image) > 0 {
		key := s.storage.BuildObjectKey(KindItems, in.ImageName)
		if _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(in.Image)); err != nil {
			return nil, &StoreError{Op: "save cover image", Err: err}
		}
		staged = key
		coverURL = key
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":         title,
			"type":          in.Type,
			"platform_id":   in.PlatformID,
			"media_type_id": in.MediaTypeID,
			"cover_url":     coverURL,
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return replaceLinks(tx, id, in.CollectionIDs, in.TagIDs, true)
	})
	if err != nil {
		_ = s.storage.Remove(staged)
		return nil, &StoreError{Op: "update item", Err: err}
	}

	if staged != "" && existing.CoverURL != "" {
		_ = s.storage.Remove(existing.CoverURL)
	}

	existing.Title = title
	existing.Type = in.Type
	existing.PlatformID = in.PlatformID
	existing.MediaTypeID = in.MediaTypeID
	existing.CoverURL = coverURL
	return &existing, nil
}

// Delete removes the item, its relation rows and its cover file
func (s *ItemService) Delete(ctx context.Context, id uint) error {
	var existing models.Item
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "item"}
		}
		return &StoreError{Op: "fetch item", Err: err}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemCollection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, id).Error
	})
	if err != nil {
		return &StoreError{Op: "delete item", Err: err}
	}

	_ = s.storage.Remove(existing.CoverURL)
	return nil
}

// attachRelations fills Tags and Collections for every view in one query per
// relation kind, preserving the per-item output shape
func (s *ItemService) attachRelations(ctx context.Context, views []ItemView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(views))
	index := make(map[uint]int, len(views))
	for i := range views {
		views[i].Tags = []models.LookupRow{}
		views[i].Collections = []models.LookupRow{}
		ids = append(ids, views[i].ID)
		index[views[i].ID] = i
	}

	type linkRow struct {
		ItemID uint
		ID     uint
		Name   string
	}

	var tagRows []linkRow
	err := s.db.WithContext(ctx).
		Table("tags AS t").
		Select("it.item_id AS item_id, t.id AS id, t.name AS name").
		Joins("INNER JOIN item_tags it ON it.tag_id = t.id").
		Where("it.item_id IN ?", ids).
		Scan(&tagRows).Error
	if err != nil {
		return &StoreError{Op: "fetch item tags", Err: err}
	}
	for _, r := range tagRows {
		i := index[r.ItemID]
		views[i].Tags = append(views[i].Tags, models.LookupRow{ID: r.ID, Name: r.Name})
	}

	var collectionRows []linkRow
	err = s.db.WithContext(ctx).
		Table("collections AS c").
		Select("ic.item_id AS item_id, c.id AS id, c.name AS name").
		Joins("INNER JOIN item_collections ic ON ic.collection_id = c.id").
		Where("ic.item_id IN ?", ids).
		Scan(&collectionRows).Error
	if err != nil {
		return &StoreError{Op: "fetch item collections", Err: err}
	}
	for _, r := range collectionRows {
		i := index[r.ItemID]
		views[i].Collections = append(views[i].Collections, models.LookupRow{ID: r.ID, Name: r.Name})
	}

	return nil
}

// replaceLinks rewrites the full relation sets of an item. With wipe set the
// existing rows are removed first (replace-all semantics on update).
func replaceLinks(tx *gorm.DB, itemID uint, collectionIDs, tagIDs []uint, wipe bool) error {
	if wipe {
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemCollection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemTag{}).Error; err != nil {
			return err
		}
	}
	for _, cid := range collectionIDs {
		if err := tx.Create(&models.ItemCollection{ItemID: itemID, CollectionID: cid}).Error; err != nil {
			return err
		}
	}
	for _, tid := range tagIDs {
		if err := tx.Create(&models.ItemTag{ItemID: itemID, TagID: tid}).Error; err != nil {
			return err
		}
	}
	return nil
}
