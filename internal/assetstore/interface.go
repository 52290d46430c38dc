package assetstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports that no blob exists under the requested identity.
var ErrNotFound = errors.New("asset not found")

// Store is the content-addressed byte storage used by the asset codec
// and the ingestion pipelines. Identities are derived from content, so
// saving identical bytes twice yields the same identity and a single
// durable write.
type Store interface {
	// Save persists data under its content-derived identity and returns
	// that identity. Saving already-present content is a no-op.
	Save(ctx context.Context, data []byte, ext string) (string, error)

	// Get returns the blob stored under identity, or ErrNotFound.
	Get(ctx context.Context, identity string) ([]byte, error)

	// Delete removes the blob if present. It reports whether a blob was
	// actually removed; deleting an absent identity is not an error.
	Delete(ctx context.Context, identity string) (bool, error)
}

const defaultExtension = "bin"

// NormalizeExtension canonicalizes a file extension for use in an
// identity: lowercase, no leading dot, alphanumeric only.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return defaultExtension
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultExtension
		}
	}
	return ext
}

// ValidateIdentity rejects identity strings that could not have been
// produced by Save: anything empty, containing path separators, or not
// of the form <hex digest>.<extension>.
func ValidateIdentity(identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return fmt.Errorf("asset identity is required")
	}
	if strings.ContainsAny(identity, "/\\") || strings.Contains(identity, "..") {
		return fmt.Errorf("invalid asset identity")
	}
	dot := strings.IndexByte(identity, '.')
	if dot <= 0 || dot == len(identity)-1 {
		return fmt.Errorf("invalid asset identity")
	}
	for _, r := range identity[:dot] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fmt.Errorf("invalid asset identity")
		}
	}
	return nil
}
