package models

import (
	"fmt"
	"strings"
	"time"
)

const maxFolderNameLength = 120

// Folder groups memos. Folders order by Position in the sidebar.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeFolderName validates and canonicalizes a folder name.
func NormalizeFolderName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("folder name is required")
	}
	if len(name) > maxFolderNameLength {
		return "", fmt.Errorf("folder name too long (max %d)", maxFolderNameLength)
	}
	if strings.ContainsAny(name, "\n\r") {
		return "", fmt.Errorf("folder name must be a single line")
	}
	return name, nil
}
