package server

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/assetref"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// MemoService orchestrates memo workflows. All content is run through
// the asset codec before persistence: inline image payloads are
// committed to the asset store and only reference spans reach SQLite.
type MemoService struct {
	store *store.Store
	codec *assetref.Codec
}

// NewMemoService constructs a MemoService.
func NewMemoService(st *store.Store, codec *assetref.Codec) *MemoService {
	return &MemoService{store: st, codec: codec}
}

// CreateMemo validates input, commits content, and inserts the memo.
func (s *MemoService) CreateMemo(ctx context.Context, folderID, title, content string) (models.Memo, error) {
	var zero models.Memo
	if s == nil || s.store == nil || s.codec == nil {
		return zero, internalError(fmt.Errorf("memo service is not configured"))
	}

	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return zero, badRequestCode(fmt.Errorf("folder_id is required"), ErrCodeMissingRequired)
	}
	folder, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if folder == nil {
		return zero, notFoundCode(fmt.Errorf("folder not found: %s", folderID), ErrCodeFolderNotFound)
	}

	normalizedTitle, err := models.NormalizeMemoTitle(title)
	if err != nil {
		return zero, badRequest(err)
	}
	committed, err := s.commitContent(ctx, content)
	if err != nil {
		return zero, err
	}

	memo := models.Memo{ID: store.NewID(), FolderID: folderID, Title: normalizedTitle, Content: committed}
	if err := s.store.CreateMemo(ctx, &memo); err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	return memo, nil
}

// UpdateMemo commits new content and persists it.
func (s *MemoService) UpdateMemo(ctx context.Context, id, title, content string) (models.Memo, error) {
	var zero models.Memo

	existing, err := s.getExisting(ctx, id)
	if err != nil {
		return zero, err
	}

	normalizedTitle, err := models.NormalizeMemoTitle(title)
	if err != nil {
		return zero, badRequest(err)
	}
	committed, err := s.commitContent(ctx, content)
	if err != nil {
		return zero, err
	}

	if _, err := s.store.UpdateMemo(ctx, existing.ID, normalizedTitle, committed); err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	updated, err := s.store.GetMemo(ctx, existing.ID)
	if err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if updated == nil {
		return zero, internalError(fmt.Errorf("memo not found after update"))
	}
	return *updated, nil
}

// MoveMemo reassigns a memo to another folder.
func (s *MemoService) MoveMemo(ctx context.Context, id, folderID string) (models.Memo, error) {
	var zero models.Memo

	existing, err := s.getExisting(ctx, id)
	if err != nil {
		return zero, err
	}

	folder, err := s.store.GetFolder(ctx, strings.TrimSpace(folderID))
	if err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if folder == nil {
		return zero, notFoundCode(fmt.Errorf("folder not found: %s", folderID), ErrCodeFolderNotFound)
	}

	if _, err := s.store.MoveMemo(ctx, existing.ID, folder.ID); err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	moved, err := s.store.GetMemo(ctx, existing.ID)
	if err != nil {
		return zero, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if moved == nil {
		return zero, internalError(fmt.Errorf("memo not found after move"))
	}
	return *moved, nil
}

// GetMemo fetches one memo.
func (s *MemoService) GetMemo(ctx context.Context, id string) (models.Memo, error) {
	memo, err := s.getExisting(ctx, id)
	if err != nil {
		return models.Memo{}, err
	}
	return *memo, nil
}

// RenderedMemo returns a memo with its asset references resolved to
// inline images for display. The resolved form is never persisted.
func (s *MemoService) RenderedMemo(ctx context.Context, id string) (models.Memo, error) {
	memo, err := s.getExisting(ctx, id)
	if err != nil {
		return models.Memo{}, err
	}
	resolved, err := s.codec.Resolve(ctx, memo.Content)
	if err != nil {
		return models.Memo{}, internalErrorCode(err, ErrCodeAssetStoreFailure)
	}
	out := *memo
	out.Content = resolved
	return out, nil
}

// DeleteMemo removes a memo. Asset blobs it references stay in the
// store; other memos may share them and nothing garbage-collects here.
func (s *MemoService) DeleteMemo(ctx context.Context, id string) error {
	existing, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.store.DeleteMemo(ctx, existing.ID); err != nil {
		return internalErrorCode(err, ErrCodeStoreFailure)
	}
	return nil
}

// ListMemos lists memos by folder and/or substring query.
func (s *MemoService) ListMemos(ctx context.Context, filter store.MemoFilter) ([]models.Memo, error) {
	memos, err := s.store.ListMemos(ctx, filter)
	if err != nil {
		return nil, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if memos == nil {
		memos = []models.Memo{}
	}
	return memos, nil
}

func (s *MemoService) getExisting(ctx context.Context, id string) (*models.Memo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, badRequestCode(fmt.Errorf("memo id is required"), ErrCodeInvalidID)
	}
	memo, err := s.store.GetMemo(ctx, id)
	if err != nil {
		return nil, internalErrorCode(err, ErrCodeStoreFailure)
	}
	if memo == nil {
		return nil, notFoundCode(fmt.Errorf("memo not found: %s", id), ErrCodeMemoNotFound)
	}
	return memo, nil
}

// commitContent rewrites inline image spans to asset references and
// refuses to let ephemeral content through. A failed commit leaves the
// caller's content untouched; retry is re-submitting the save.
func (s *MemoService) commitContent(ctx context.Context, content string) (string, error) {
	committed, err := s.codec.Commit(ctx, content)
	if err != nil {
		return "", internalErrorCode(fmt.Errorf("commit content: %w", err), ErrCodeAssetStoreFailure)
	}
	if assetref.HasInline(committed) {
		return "", internalError(fmt.Errorf("content still carries inline image payloads after commit"))
	}
	return committed, nil
}
