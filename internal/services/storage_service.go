package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medialedger/backend/internal/config"
)

// Asset kinds, one directory per entity kind under the uploads root
const (
	KindItems       = "items"
	KindCollections = "collections"
)

// StorageService stores uploaded cover images on the local filesystem.
// Keys are relative paths under the uploads root; rows persist the key and
// the HTTP layer serves the root as static files.
type StorageService struct {
	cfg *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	// ensure local path exists
	_ = os.MkdirAll(cfg.UploadsPath, 0o755)
	return &StorageService{cfg: cfg}
}

// BuildObjectKey creates a collision-resistant storage key, retaining the
// original file extension: <kind>/<unix-millis>-<random>.<ext>
func (s *StorageService) BuildObjectKey(kind string, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%d-%s%s", kind, time.Now().UnixMilli(), uuid.New().String(), ext)
}

// SaveStream saves an incoming stream under the given key and returns the
// absolute path. The write is atomic: tmp file, fsync, rename.
func (s *StorageService) SaveStream(ctx context.Context, key string, r io.Reader) (string, error) {
	absPath := filepath.Join(s.cfg.UploadsPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", err
	}

	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	if err := f.Sync(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return absPath, nil
}

// Remove deletes the file for a key. A file that is already gone is not an error.
func (s *StorageService) Remove(key string) error {
	if key == "" {
		return nil
	}
	absPath := filepath.Join(s.cfg.UploadsPath, filepath.FromSlash(key))
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether the file for a key is still on disk
func (s *StorageService) Exists(key string) bool {
	if key == "" {
		return false
	}
	absPath := filepath.Join(s.cfg.UploadsPath, filepath.FromSlash(key))
	_, err := os.Stat(absPath)
	return err == nil
}
