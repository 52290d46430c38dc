package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
)

// MemoFilter narrows ListMemos.
type MemoFilter struct {
	FolderID string
	// Query is a plain substring match over title and content.
	Query string
	// Limit of 0 applies the default; negative disables the limit.
	Limit  int
	Offset int
}

const defaultMemoListLimit = 200

// CreateMemo inserts a memo.
func (s *Store) CreateMemo(ctx context.Context, memo *models.Memo) error {
	if memo == nil {
		return fmt.Errorf("memo is required")
	}
	now := time.Now().UTC()
	memo.CreatedAt = now
	memo.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO memos (id, folder_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		memo.ID, memo.FolderID, memo.Title, memo.Content, formatTime(memo.CreatedAt), formatTime(memo.UpdatedAt))
	return err
}

// GetMemo returns one memo, or nil if absent.
func (s *Store) GetMemo(ctx context.Context, id string) (*models.Memo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, folder_id, title, content, created_at, updated_at FROM memos WHERE id = ?", id)
	memo, err := scanMemo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return memo, nil
}

// UpdateMemo replaces a memo's title and content. It reports whether
// the memo existed.
func (s *Store) UpdateMemo(ctx context.Context, id, title, content string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE memos SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		title, content, formatTime(time.Now().UTC()), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MoveMemo reassigns a memo to another folder.
func (s *Store) MoveMemo(ctx context.Context, id, folderID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE memos SET folder_id = ?, updated_at = ? WHERE id = ?",
		folderID, formatTime(time.Now().UTC()), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteMemo removes a memo. It reports whether the memo existed.
func (s *Store) DeleteMemo(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM memos WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListMemos returns memos matching the filter, most recently updated
// first.
func (s *Store) ListMemos(ctx context.Context, filter MemoFilter) ([]models.Memo, error) {
	var (
		conds []string
		args  []any
	)
	if filter.FolderID != "" {
		conds = append(conds, "folder_id = ?")
		args = append(args, filter.FolderID)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		conds = append(conds, "(title LIKE ? ESCAPE '\\' OR content LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern)
	}

	query := "SELECT id, folder_id, title, content, created_at, updated_at FROM memos"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"

	limit := filter.Limit
	if limit == 0 {
		limit = defaultMemoListLimit
	}
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(filter.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Memo
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *memo)
	}
	return out, rows.Err()
}

func scanMemo(row rowScanner) (*models.Memo, error) {
	var memo models.Memo
	var createdAt, updatedAt string
	if err := row.Scan(&memo.ID, &memo.FolderID, &memo.Title, &memo.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if memo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if memo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &memo, nil
}

func escapeLike(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(q)
}
