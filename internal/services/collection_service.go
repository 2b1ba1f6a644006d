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

type CollectionService struct {
	db      *gorm.DB
	storage *StorageService
	items   *ItemService
}

func NewCollectionService(db *gorm.DB, storage *StorageService, items *ItemService) *CollectionService {
	return &CollectionService{db: db, storage: storage, items: items}
}

// CollectionInput carries the fields of a collection create/update request
type CollectionInput struct {
	Name        string
	Description string
	Image       []byte
	ImageName   string
}

// CollectionWithItems is the detail read model: the collection plus every
// joined item, each enriched like the item list.
type CollectionWithItems struct {
	models.Collection
	Items []ItemView `json:"items"`
}

// List returns all collections without their items
func (s *CollectionService) List(ctx context.Context) ([]models.Collection, error) {
	collections := []models.Collection{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&collections).Error; err != nil {
		return nil, &StoreError{Op: "fetch collections", Err: err}
	}
	return collections, nil
}

// Create inserts a collection with an optional cover image. The staged cover
// file is removed again when the insert fails.
func (s *CollectionService) Create(ctx context.Context, in CollectionInput) (*models.Collection, error) {
	name := validation.NormalizeName(in.Name)
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	coverURL := ""
	if len(in.Image) > 0 {
		key := s.storage.BuildObjectKey(KindCollections, in.ImageName)
		if _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(in.Image)); err != nil {
			return nil, &StoreError{Op: "save cover image", Err: err}
		}
		coverURL = key
	}

	collection := &models.Collection{
		Name:        name,
		Description: in.Description,
		CoverURL:    coverURL,
	}
	if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
		_ = s.storage.Remove(coverURL)
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: fmt.Sprintf("collection %q already exists", name)}
		}
		return nil, &StoreError{Op: "add collection", Err: err}
	}
	return collection, nil
}

// GetWithItems returns a collection plus every item joined to it, each item
// enriched with its lookup names and full tag/collection membership
func (s *CollectionService) GetWithItems(ctx context.Context, id uint) (*CollectionWithItems, error) {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "collection"}
		}
		return nil, &StoreError{Op: "fetch collection", Err: err}
	}

	views := []ItemView{}
	err := s.db.WithContext(ctx).
		Table("items AS i").
		Select("i.*, p.name AS platform_name, m.name AS media_type_name").
		Joins("INNER JOIN item_collections ic ON ic.item_id = i.id").
		Joins("LEFT JOIN platforms p ON p.id = i.platform_id").
		Joins("LEFT JOIN media_types m ON m.id = i.media_type_id").
		Where("ic.collection_id = ?", id).
		Order("i.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, &StoreError{Op: "fetch collection items", Err: err}
	}
	if err := s.items.attachRelations(ctx, views); err != nil {
		return nil, err
	}

	return &CollectionWithItems{Collection: collection, Items: views}, nil
}

// Update replaces name and description unconditionally. A new image
// overwrites cover_url; the superseded cover file stays on disk here, unlike
// the item path which removes it.
func (s *CollectionService) Update(ctx context.Context, id uint, in CollectionInput) error {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "collection"}
		}
		return &StoreError{Op: "fetch collection", Err: err}
	}

	name := validation.NormalizeName(in.Name)
	if name == "" {
		return &ValidationError{Message: "name is required"}
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": in.Description,
	}
	staged := ""
	if len(in.Image) > 0 {
		key := s.storage.BuildObjectKey(KindCollections, in.ImageName)
		if _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(in.Image)); err != nil {
			return &StoreError{Op: "save cover image", Err: err}
		}
		staged = key
		updates["cover_url"] = key
	}

	err := s.db.WithContext(ctx).Model(&models.Collection{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		_ = s.storage.Remove(staged)
		if isUniqueViolation(err) {
			return &ConflictError{Message: fmt.Sprintf("collection %q already exists", name)}
		}
		return &StoreError{Op: "update collection", Err: err}
	}
	return nil
}

// Delete removes the collection row and all item_collections rows referencing
// it in one transaction, then its cover file. An absent id is a no-op.
func (s *CollectionService) Delete(ctx context.Context, id uint) error {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return &StoreError{Op: "fetch collection", Err: err}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.ItemCollection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, id).Error
	})
	if err != nil {
		return &StoreError{Op: "delete collection", Err: err}
	}

	_ = s.storage.Remove(collection.CoverURL)
	return nil
}
