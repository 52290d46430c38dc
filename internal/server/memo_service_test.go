package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

type brokenAssetStore struct{}

func (brokenAssetStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	return "", fmt.Errorf("disk full")
}

func (brokenAssetStore) Get(ctx context.Context, identity string) ([]byte, error) {
	return nil, fmt.Errorf("disk broken")
}

func (brokenAssetStore) Delete(ctx context.Context, identity string) (bool, error) {
	return false, fmt.Errorf("disk broken")
}

func newServiceFixture(t *testing.T) (*MemoService, *assetstore.Memory, *store.Store, models.Folder) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "inkwell.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	assets := assetstore.NewMemory()
	service := NewMemoService(st, assetref.NewCodec(assets))

	folder := models.Folder{ID: store.NewID(), Name: "Notes"}
	if err := st.CreateFolder(context.Background(), &folder); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	return service, assets, st, folder
}

func TestCreateMemoCommitsInlineImages(t *testing.T) {
	service, assets, _, folder := newServiceFixture(t)
	ctx := context.Background()

	content := "shopping\n" + assetref.InlineSpan("receipt", "image/png", []byte("receipt bytes"))
	memo, err := service.CreateMemo(ctx, folder.ID, "shopping", content)
	if err != nil {
		t.Fatalf("create memo: %v", err)
	}

	if assetref.HasInline(memo.Content) {
		t.Fatalf("persisted content still ephemeral: %q", memo.Content)
	}
	refs := assetref.References(memo.Content)
	if len(refs) != 1 {
		t.Fatalf("expected one reference, got %v", refs)
	}
	if assets.Len() != 1 {
		t.Fatalf("expected one stored blob, got %d", assets.Len())
	}
}

func TestCreateMemoRequiresExistingFolder(t *testing.T) {
	service, _, _, _ := newServiceFixture(t)
	if _, err := service.CreateMemo(context.Background(), "missing-folder", "t", "c"); err == nil {
		t.Fatalf("expected folder-not-found error")
	}
}

func TestUpdateMemoFailedCommitLeavesMemoUntouched(t *testing.T) {
	service, _, st, folder := newServiceFixture(t)
	ctx := context.Background()

	memo, err := service.CreateMemo(ctx, folder.ID, "stable", "original content")
	if err != nil {
		t.Fatalf("create memo: %v", err)
	}

	broken := NewMemoService(st, assetref.NewCodec(brokenAssetStore{}))
	ephemeral := assetref.InlineSpan("pic", "image/png", []byte("bytes"))
	if _, err := broken.UpdateMemo(ctx, memo.ID, "stable", ephemeral); err == nil {
		t.Fatalf("expected commit failure")
	}

	got, err := st.GetMemo(ctx, memo.ID)
	if err != nil {
		t.Fatalf("get memo: %v", err)
	}
	if got.Content != "original content" {
		t.Fatalf("memo mutated despite failed commit: %q", got.Content)
	}
}

func TestRenderedMemoResolvesReferences(t *testing.T) {
	service, _, _, folder := newServiceFixture(t)
	ctx := context.Background()

	memo, err := service.CreateMemo(ctx, folder.ID, "pic",
		assetref.InlineSpan("pic", "image/png", []byte("image bytes")))
	if err != nil {
		t.Fatalf("create memo: %v", err)
	}

	rendered, err := service.RenderedMemo(ctx, memo.ID)
	if err != nil {
		t.Fatalf("rendered: %v", err)
	}
	if !strings.Contains(rendered.Content, "data:image/png;base64,") {
		t.Fatalf("rendered content not inlined: %q", rendered.Content)
	}

	// Render must not write back: the stored memo keeps references.
	stored, err := service.GetMemo(ctx, memo.ID)
	if err != nil {
		t.Fatalf("get memo: %v", err)
	}
	if len(assetref.References(stored.Content)) != 1 {
		t.Fatalf("stored memo lost its reference form: %q", stored.Content)
	}
}

func TestDeleteMemoKeepsBlobs(t *testing.T) {
	service, assets, _, folder := newServiceFixture(t)
	ctx := context.Background()

	memo, err := service.CreateMemo(ctx, folder.ID, "t",
		assetref.InlineSpan("x", "image/png", []byte("shared blob")))
	if err != nil {
		t.Fatalf("create memo: %v", err)
	}
	if err := service.DeleteMemo(ctx, memo.ID); err != nil {
		t.Fatalf("delete memo: %v", err)
	}
	if assets.Len() != 1 {
		t.Fatalf("blob must survive memo deletion, got %d", assets.Len())
	}
}
