package ingest

import (
	"bytes"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// sniffMediaType inspects payload bytes and returns the image media
// type the registered decoders recognize. Clipboard items often carry
// vague declared types ("image/*", jpeg pasted as image/jpg), so the
// sniffed type wins when available.
func sniffMediaType(data []byte) (string, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format == "" {
		return "", false
	}
	return "image/" + format, true
}

// isImageMediaType reports whether a declared clipboard media type
// names an image payload.
func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
