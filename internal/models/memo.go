package models

import (
	"fmt"
	"strings"
	"time"
)

const maxMemoTitleLength = 250

// Memo is one note. Content is markdown text; images inside it are
// stored as asset references, never as inline payloads (the asset
// codec commits content before it reaches persistence).
type Memo struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeMemoTitle validates and canonicalizes a memo title. An
// empty title is allowed; editors commonly derive it from the first
// content line.
func NormalizeMemoTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if len(title) > maxMemoTitleLength {
		return "", fmt.Errorf("memo title too long (max %d)", maxMemoTitleLength)
	}
	if strings.ContainsAny(title, "\n\r") {
		return "", fmt.Errorf("memo title must be a single line")
	}
	return title, nil
}
