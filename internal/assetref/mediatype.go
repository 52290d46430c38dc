package assetref

import (
	"path"
	"strings"
)

// A small fixed table beats mime.ExtensionsByType here: that API
// returns platform-dependent multi-candidate lists (".jpe" before
// ".jpg" on some systems) and identities must be stable across
// machines.
var extensionByMediaType = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
	"image/svg+xml": "svg",
	"image/x-icon":  "ico",
	"image/tiff":    "tiff",
}

var mediaTypeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"tiff": "image/tiff",
}

// ExtensionForMediaType maps an image media type to the extension used
// in asset identities. Undeterminable types fall back to png.
func ExtensionForMediaType(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if ext, ok := extensionByMediaType[mediaType]; ok {
		return ext
	}
	subtype := strings.TrimPrefix(mediaType, "image/")
	if subtype == mediaType || subtype == "" {
		return "png"
	}
	for _, r := range subtype {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "png"
		}
	}
	return subtype
}

// MediaTypeForExtension returns the media type for a known image file
// extension, with or without the leading dot.
func MediaTypeForExtension(ext string) (string, bool) {
	mediaType, ok := mediaTypeByExtension[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return mediaType, ok
}

// MediaTypeForIdentity derives the media type from an identity's
// extension, for re-inlining on resolve.
func MediaTypeForIdentity(identity string) string {
	ext := strings.TrimPrefix(path.Ext(identity), ".")
	if mediaType, ok := mediaTypeByExtension[ext]; ok {
		return mediaType
	}
	if ext == "" {
		return "image/png"
	}
	return "image/" + ext
}
