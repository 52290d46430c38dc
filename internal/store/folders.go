package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/models"
)

// CreateFolder inserts a folder at the end of the sidebar order.
func (s *Store) CreateFolder(ctx context.Context, folder *models.Folder) error {
	if folder == nil {
		return fmt.Errorf("folder is required")
	}
	now := time.Now().UTC()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var maxPos sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(position) FROM folders").Scan(&maxPos); err != nil {
		return err
	}
	folder.Position = int(maxPos.Int64) + 1

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO folders (id, name, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		folder.ID, folder.Name, folder.Position, formatTime(folder.CreatedAt), formatTime(folder.UpdatedAt),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// GetFolder returns one folder, or nil if absent.
func (s *Store) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, position, created_at, updated_at FROM folders WHERE id = ?", id)
	folder, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// ListFolders returns all folders in sidebar order.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, position, created_at, updated_at FROM folders ORDER BY position, created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *folder)
	}
	return out, rows.Err()
}

// RenameFolder updates a folder's name. It reports whether the folder
// existed.
func (s *Store) RenameFolder(ctx context.Context, id, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE folders SET name = ?, updated_at = ? WHERE id = ?",
		name, formatTime(time.Now().UTC()), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteFolder removes a folder and, via cascade, its memos.
func (s *Store) DeleteFolder(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReorderFolders assigns positions following the given id order. Every
// existing folder must appear exactly once.
func (s *Store) ReorderFolders(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM folders").Scan(&count); err != nil {
		return err
	}
	if count != len(ids) {
		return fmt.Errorf("reorder must list all %d folders, got %d", count, len(ids))
	}

	now := formatTime(time.Now().UTC())
	for i, id := range ids {
		res, err := tx.ExecContext(ctx,
			"UPDATE folders SET position = ?, updated_at = ? WHERE id = ?", i, now, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("unknown folder id: %s", id)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var folder models.Folder
	var createdAt, updatedAt string
	if err := row.Scan(&folder.ID, &folder.Name, &folder.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if folder.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if folder.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &folder, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}
