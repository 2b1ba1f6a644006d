package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/medialedger/backend/internal/config"
	"github.com/medialedger/backend/internal/models"
	"gorm.io/gorm"
)

// newTestEnv opens a fresh SQLite database and uploads directory under a
// per-test temp dir.
func newTestEnv(t *testing.T) (*gorm.DB, *StorageService) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Env:                "test",
		DBPath:             filepath.Join(dir, "test.db"),
		UploadsPath:        filepath.Join(dir, "uploads"),
		UploadMaxImageSize: 10 * 1024 * 1024,
	}

	db, err := models.InitDB(cfg)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db, NewStorageService(cfg)
}

func mustCreateLookup(t *testing.T, s *LookupService, table, name string) uint {
	t.Helper()
	row, err := s.Create(context.Background(), table, name)
	if err != nil {
		t.Fatalf("create %s %q: %v", table, name, err)
	}
	return row.ID
}

// listKind returns the file names stored under one asset kind directory
func (s *StorageService) listKind(kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.cfg.UploadsPath, kind))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// memberIDs extracts the id set of a relation list
func memberIDs(rows []models.LookupRow) map[uint]bool {
	ids := make(map[uint]bool, len(rows))
	for _, r := range rows {
		ids[r.ID] = true
	}
	return ids
}
