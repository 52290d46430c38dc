// Package ingest turns clipboard paste and file drop events into
// committed memo content: raw image bytes become an inline span, the
// asset codec commits the span to the asset store, and the editor is
// handed back reference-only content through its change callback.
package ingest

import "context"

// ClipboardItem is one typed payload on a paste event. Bytes
// materializes the payload asynchronously and may fail.
type ClipboardItem interface {
	MediaType() string
	Bytes(ctx context.Context) ([]byte, error)
}

// ClipboardEvent is one observed paste. SuppressDefault prevents the
// platform's default paste action from also inserting the payload.
type ClipboardEvent interface {
	Items() []ClipboardItem
	SuppressDefault()
}

// ClipboardSource delivers paste events to a subscribed handler. The
// returned release func unregisters the handler and must always be
// called on teardown.
type ClipboardSource interface {
	Subscribe(handler func(ClipboardEvent)) (release func(), err error)
}

// DropFile is one file in a drop payload.
type DropFile interface {
	Name() string
	Bytes(ctx context.Context) ([]byte, error)
}

// DropEvent is one observed file drop at a pointer position and caret
// offset.
type DropEvent interface {
	Files() []DropFile
	Position() Point
	Caret() int
	SuppressDefault()
}

// DropSource delivers drop events to a subscribed handler.
type DropSource interface {
	Subscribe(handler func(DropEvent)) (release func(), err error)
}

// Point is a pointer position in the editor's coordinate space.
type Point struct {
	X float64
	Y float64
}

// Rect is the drop target's bounding rectangle.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Contains reports whether p lies within the rectangle. Containment is
// checked geometrically rather than by event-target nesting, so
// crossing a child element boundary does not flicker the drag state.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}
