package services

import (
	"context"
	"errors"
	"testing"

	"github.com/medialedger/backend/internal/models"
)

func TestCollectionCreateValidation(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	for _, name := range []string{"", "   "} {
		_, err := collections.Create(ctx, CollectionInput{Name: name})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("name %q: expected ValidationError, got %v", name, err)
		}
	}

	col, err := collections.Create(ctx, CollectionInput{Name: "  Marvel  ", Description: "MCU"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if col.Name != "Marvel" {
		t.Errorf("expected trimmed name, got %q", col.Name)
	}
	if col.Description != "MCU" {
		t.Errorf("expected description kept, got %q", col.Description)
	}
}

func TestCollectionCreateDuplicate(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	if _, err := collections.Create(ctx, CollectionInput{Name: "Marvel"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := collections.Create(ctx, CollectionInput{Name: " Marvel "})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCollectionGetWithItems(t *testing.T) {
	db, storage := newTestEnv(t)
	lookups := NewLookupService(db)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	col, err := collections.Create(ctx, CollectionInput{Name: "Marvel"})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}
	platformID := mustCreateLookup(t, lookups, TablePlatforms, "Blu-ray Player")

	linked, err := items.Create(ctx, ItemInput{
		Title:         "Iron Man",
		Type:          models.ItemTypeMovie,
		PlatformID:    &platformID,
		CollectionIDs: []uint{col.ID},
	})
	if err != nil {
		t.Fatalf("create linked item: %v", err)
	}
	if _, err := items.Create(ctx, ItemInput{Title: "Unrelated", Type: models.ItemTypeGame}); err != nil {
		t.Fatalf("create unrelated item: %v", err)
	}

	detail, err := collections.GetWithItems(ctx, col.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Name != "Marvel" {
		t.Errorf("unexpected collection: %+v", detail.Collection)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(detail.Items))
	}
	got := detail.Items[0]
	if got.ID != linked.ID || got.Title != "Iron Man" {
		t.Errorf("unexpected item: %+v", got.Item)
	}
	if got.PlatformName != "Blu-ray Player" {
		t.Errorf("expected enriched platform name, got %q", got.PlatformName)
	}
	cids := memberIDs(got.Collections)
	if len(cids) != 1 || !cids[col.ID] {
		t.Errorf("expected membership {%d}, got %v", col.ID, got.Collections)
	}
}

func TestCollectionGetMissing(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)

	_, err := collections.GetWithItems(context.Background(), 123)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCollectionUpdate(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	col, err := collections.Create(ctx, CollectionInput{
		Name:      "Old",
		Image:     []byte("old cover"),
		ImageName: "old.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldCover := col.CoverURL

	err = collections.Update(ctx, col.ID, CollectionInput{
		Name:        "New",
		Description: "renamed",
		Image:       []byte("new cover"),
		ImageName:   "new.png",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	detail, err := collections.GetWithItems(ctx, col.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Name != "New" || detail.Description != "renamed" {
		t.Errorf("fields not replaced: %+v", detail.Collection)
	}
	if detail.CoverURL == oldCover || detail.CoverURL == "" {
		t.Errorf("expected new cover_url, got %q", detail.CoverURL)
	}
	// the superseded cover file is intentionally kept on this path
	if !storage.Exists(oldCover) {
		t.Error("old cover file should remain on disk")
	}
	if !storage.Exists(detail.CoverURL) {
		t.Error("new cover file missing")
	}
}

func TestCollectionUpdateMissing(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)

	err := collections.Update(context.Background(), 4242, CollectionInput{Name: "Ghost"})
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCollectionUpdateConflictCleansStagedCover(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	if _, err := collections.Create(ctx, CollectionInput{Name: "Marvel"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	col, err := collections.Create(ctx, CollectionInput{Name: "DC"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// renaming onto an existing name fails after the new cover is staged
	err = collections.Update(ctx, col.ID, CollectionInput{
		Name:      "Marvel",
		Image:     []byte("cover"),
		ImageName: "cover.jpg",
	})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	names, err := storage.listKind(KindCollections)
	if err != nil {
		t.Fatalf("list covers: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("staged cover should be removed on failure, found %v", names)
	}
}

func TestCollectionDeleteCascades(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)
	ctx := context.Background()

	col, err := collections.Create(ctx, CollectionInput{
		Name:      "Doomed",
		Image:     []byte("cover"),
		ImageName: "cover.jpg",
	})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}
	item, err := items.Create(ctx, ItemInput{
		Title:         "Member",
		Type:          models.ItemTypeMovie,
		CollectionIDs: []uint{col.ID},
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := collections.Delete(ctx, col.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// the collection and its cover are gone
	var nferr *NotFoundError
	if _, err := collections.GetWithItems(ctx, col.ID); !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if storage.Exists(col.CoverURL) {
		t.Error("cover file should be removed on delete")
	}

	// no dangling membership on the item
	view, err := items.GetWithRelations(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if len(view.Collections) != 0 {
		t.Errorf("expected no collection membership, got %v", view.Collections)
	}
}

func TestCollectionDeleteMissingIsNoop(t *testing.T) {
	db, storage := newTestEnv(t)
	items := NewItemService(db, storage)
	collections := NewCollectionService(db, storage, items)

	if err := collections.Delete(context.Background(), 555); err != nil {
		t.Errorf("delete of missing id: %v", err)
	}
}
