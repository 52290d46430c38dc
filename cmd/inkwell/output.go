package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"inkwell/internal/assetref"
	"inkwell/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeFolderList(folders []models.Folder) error {
	for _, folder := range folders {
		if err := writePlain("%s  %s\n", folder.ID, folder.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeMemoList(memos []models.Memo) error {
	for _, memo := range memos {
		if err := writePlain("%s\n", formatMemoLine(memo)); err != nil {
			return err
		}
	}
	return nil
}

func writeMemoDetail(memo models.Memo) error {
	lines := []string{
		fmt.Sprintf("id: %s", memo.ID),
		fmt.Sprintf("folder_id: %s", memo.FolderID),
		fmt.Sprintf("title: %s", memo.Title),
		fmt.Sprintf("created_at: %s", formatTime(memo.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(memo.UpdatedAt)),
	}
	if refs := assetref.References(memo.Content); len(refs) > 0 {
		lines = append(lines, fmt.Sprintf("assets: %s", strings.Join(refs, ", ")))
	}
	lines = append(lines, "", memo.Content)
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatMemoLine(memo models.Memo) string {
	title := memo.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s  %s  %s", memo.ID, formatTime(memo.UpdatedAt), title)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
