package assetstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

// Local stores blobs as flat files in a directory, named by identity.
// Writes stage through a tmp/ subdirectory and move into place with a
// rename, so concurrent saves of the same bytes cannot observe a
// truncated blob.
type Local struct {
	root string
}

// NewLocal creates a local asset store rooted at root.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("asset store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Identity computes the identity Save would assign to data, without
// touching storage.
func Identity(data []byte, ext string) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:]) + "." + NormalizeExtension(ext)
}

// Save writes data under its content-derived identity. Already-present
// content is left untouched.
func (s *Local) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("asset store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	identity := Identity(data, ext)
	dst := filepath.Join(s.root, identity)

	if _, err := os.Stat(dst); err == nil {
		return identity, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "save-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		// A concurrent save of the same bytes may have won the rename.
		// Content addressing makes that outcome identical to ours.
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return identity, nil
		}
		cleanup()
		return "", err
	}

	return identity, nil
}

// Get returns the blob stored under identity.
func (s *Local) Get(ctx context.Context, identity string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("asset store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, identity))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, identity)
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the blob if present and reports whether it existed.
func (s *Local) Delete(ctx context.Context, identity string) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("asset store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := ValidateIdentity(identity); err != nil {
		return false, err
	}
	if err := os.Remove(filepath.Join(s.root, identity)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
