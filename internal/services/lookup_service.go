package services

import (
	"context"
	"fmt"

	"github.com/medialedger/backend/internal/models"
	"github.com/medialedger/backend/pkg/validation"
	"gorm.io/gorm"
)

// Lookup tables served by LookupService
const (
	TablePlatforms  = "platforms"
	TableMediaTypes = "media_types"
	TableTags       = "tags"
)

// LookupService covers the three simple name lookup entities (platforms,
// media types, tags). The tables are structurally identical, so one service
// handles all of them with the table chosen per call.
type LookupService struct {
	db *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{db: db}
}

// List returns all rows of a lookup table in insertion order
func (s *LookupService) List(ctx context.Context, table string) ([]models.LookupRow, error) {
	rows := []models.LookupRow{}
	err := s.db.WithContext(ctx).Table(table).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, &StoreError{Op: "fetch " + table, Err: err}
	}
	return rows, nil
}

// Create inserts a new named row. The name is trimmed first; a blank name is
// rejected and a duplicate name surfaces as ConflictError.
func (s *LookupService) Create(ctx context.Context, table, name string) (*models.LookupRow, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	row := models.LookupRow{Name: name}
	if err := s.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: fmt.Sprintf("%s %q already exists", singular(table), name)}
		}
		return nil, &StoreError{Op: "add " + singular(table), Err: err}
	}
	return &row, nil
}

// Delete removes a row by id. An absent id is a no-op, and dangling
// references from items are deliberately left alone.
func (s *LookupService) Delete(ctx context.Context, table string, id uint) error {
	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(&models.LookupRow{}).Error
	if err != nil {
		return &StoreError{Op: "delete " + singular(table), Err: err}
	}
	return nil
}

func singular(table string) string {
	switch table {
	case TablePlatforms:
		return "platform"
	case TableMediaTypes:
		return "media type"
	case TableTags:
		return "tag"
	}
	return table
}
