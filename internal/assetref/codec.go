// Package assetref rewrites memo content between its two well-formed
// states: ephemeral content, where a pasted or dropped image still
// lives inline as a base64 data URI, and committed content, where every
// image is a compact reference into the asset store. Only committed
// content may reach memo persistence.
package assetref

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"inkwell/internal/assetstore"
)

// Inline spans are standard markdown images whose target is a base64
// data URI. Reference spans reuse the markdown image shape with an
// asset:// target, so the two can never match each other's pattern and
// both survive a TEXT column without escaping.
var (
	inlinePattern    = regexp.MustCompile(`!\[([^\]\n]*)\]\(data:image/([a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/=]*)\)`)
	referencePattern = regexp.MustCompile(`!\[([^\]\n]*)\]\(asset://([0-9a-f]+\.[a-z0-9]+)\)`)
)

// Codec converts between ephemeral and committed content against one
// asset store.
type Codec struct {
	store assetstore.Store
}

// NewCodec creates a codec backed by store.
func NewCodec(store assetstore.Store) *Codec {
	return &Codec{store: store}
}

// InlineSpan builds an ephemeral image span from raw bytes. mediaType
// may be a full image media type or a bare subtype.
func InlineSpan(alt, mediaType string, data []byte) string {
	return fmt.Sprintf("![%s](data:image/%s;base64,%s)",
		sanitizeAlt(alt), sanitizeSubtype(mediaType), base64.StdEncoding.EncodeToString(data))
}

// ReferenceSpan builds a committed image span for a stored identity.
func ReferenceSpan(alt, identity string) string {
	return fmt.Sprintf("![%s](asset://%s)", sanitizeAlt(alt), identity)
}

// sanitizeSubtype keeps the subtype inside the character class the
// inline pattern matches. A subtype the pattern cannot see (clipboards
// declare "image/*") would make the whole span invisible to Commit and
// HasInline, and the raw base64 payload would slip past the
// persistence guard.
func sanitizeSubtype(mediaType string) string {
	subtype := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
	if subtype == "" {
		return "png"
	}
	for _, r := range subtype {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '+', r == '-':
		default:
			return "png"
		}
	}
	return subtype
}

// sanitizeAlt keeps alt text from breaking the span syntax. A span
// that fails to parse would survive commit as raw inline bytes.
func sanitizeAlt(alt string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '\n', '\r':
			return ' '
		}
		return r
	}, alt)
}

// HasInline reports whether content still carries inline image spans.
// Content for which this returns true must never be persisted.
func HasInline(content string) bool {
	return inlinePattern.MatchString(content)
}

// References returns the identities of all reference spans in content,
// in document order.
func References(content string) []string {
	matches := referencePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[2])
	}
	return out
}

// Commit rewrites every inline image span into a reference span,
// saving the decoded bytes to the asset store. Surrounding text and
// span order are preserved, and already-committed spans pass through
// untouched, so Commit is idempotent.
//
// Commit is atomic: if any decode or save fails, the error is returned
// and no partially-rewritten content escapes. The caller keeps the
// original content and may retry the whole operation.
func (c *Codec) Commit(ctx context.Context, content string) (string, error) {
	if c == nil || c.store == nil {
		return "", fmt.Errorf("asset codec is not configured")
	}

	spans := inlinePattern.FindAllStringSubmatchIndex(content, -1)
	if len(spans) == 0 {
		return content, nil
	}

	var out strings.Builder
	out.Grow(len(content))
	last := 0
	for _, span := range spans {
		alt := content[span[2]:span[3]]
		subtype := content[span[4]:span[5]]
		payload := content[span[6]:span[7]]

		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", fmt.Errorf("decode inline image: %w", err)
		}
		identity, err := c.store.Save(ctx, data, ExtensionForMediaType("image/"+subtype))
		if err != nil {
			return "", fmt.Errorf("save inline image: %w", err)
		}

		out.WriteString(content[last:span[0]])
		out.WriteString(ReferenceSpan(alt, identity))
		last = span[1]
	}
	out.WriteString(content[last:])
	return out.String(), nil
}

// Resolve rewrites every reference span back into an inline span for
// rendering, fetching bytes from the asset store. A reference whose
// blob is missing becomes a placeholder marker; resolution of the rest
// of the document continues. Resolve is a read-time transform only and
// its output must never be persisted.
func (c *Codec) Resolve(ctx context.Context, content string) (string, error) {
	if c == nil || c.store == nil {
		return "", fmt.Errorf("asset codec is not configured")
	}

	spans := referencePattern.FindAllStringSubmatchIndex(content, -1)
	if len(spans) == 0 {
		return content, nil
	}

	var out strings.Builder
	out.Grow(len(content))
	last := 0
	for _, span := range spans {
		alt := content[span[2]:span[3]]
		identity := content[span[4]:span[5]]

		out.WriteString(content[last:span[0]])
		data, err := c.store.Get(ctx, identity)
		switch {
		case err == nil:
			out.WriteString(InlineSpan(alt, MediaTypeForIdentity(identity), data))
		case isNotFound(err):
			out.WriteString(missingAssetSpan(identity))
		default:
			return "", fmt.Errorf("resolve asset %s: %w", identity, err)
		}
		last = span[1]
	}
	out.WriteString(content[last:])
	return out.String(), nil
}

func missingAssetSpan(identity string) string {
	return fmt.Sprintf("![missing asset %s]()", identity)
}

func isNotFound(err error) bool {
	return errors.Is(err, assetstore.ErrNotFound)
}
