package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"inkwell/internal/assetref"
)

// DragState is the drop target's current drag condition.
type DragState int

const (
	DragIdle DragState = iota
	DragOver
)

// DropPipeline ingests images arriving via drag-and-drop. Unlike
// paste, a drop has an explicit multi-select affordance, so every file
// in the payload is ingested, and a drop has a meaningful target
// location, so spans insert at the caret instead of appending.
type DropPipeline struct {
	codec   *assetref.Codec
	content func() string
	apply   func(content string, caret int)
	logger  *slog.Logger

	bounds Rect
	state  DragState
}

// NewDropPipeline constructs a drop pipeline. apply receives committed
// content and the caret offset positioned after the inserted spans.
func NewDropPipeline(codec *assetref.Codec, content func() string, apply func(string, int), logger *slog.Logger) *DropPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &DropPipeline{codec: codec, content: content, apply: apply, logger: logger}
}

// Listen subscribes the pipeline to a drop source. The returned stop
// func releases the subscription and must be called on teardown.
func (d *DropPipeline) Listen(ctx context.Context, source DropSource) (func(), error) {
	if source == nil {
		return nil, fmt.Errorf("drop source is required")
	}
	release, err := source.Subscribe(func(evt DropEvent) {
		if err := d.HandleDrop(ctx, evt); err != nil {
			d.logger.Warn("drop ingestion failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

// SetBounds records the drop target's bounding rectangle for drag
// containment checks.
func (d *DropPipeline) SetBounds(bounds Rect) {
	d.bounds = bounds
}

// State returns the current drag state.
func (d *DropPipeline) State() DragState {
	return d.state
}

// HandleDragOver enters DragOver while the pointer is inside the drop
// target's bounds.
func (d *DropPipeline) HandleDragOver(p Point) {
	if d.bounds.Contains(p) {
		d.state = DragOver
	} else {
		d.state = DragIdle
	}
}

// HandleDragLeave re-checks containment instead of trusting the event:
// leaving a child element fires dragleave while the pointer is still
// inside the target.
func (d *DropPipeline) HandleDragLeave(p Point) {
	if !d.bounds.Contains(p) {
		d.state = DragIdle
	}
}

// HandleDrop processes one drop event against the current document
// snapshot and hands the committed result to the apply callback.
func (d *DropPipeline) HandleDrop(ctx context.Context, evt DropEvent) error {
	if d == nil || d.codec == nil {
		return fmt.Errorf("drop pipeline is not configured")
	}
	d.state = DragIdle
	if evt == nil {
		return nil
	}
	// Stop the platform from opening the dropped files.
	evt.SuppressDefault()

	snapshot := d.content()
	committed, caret, err := d.Ingest(ctx, evt.Files(), snapshot, evt.Caret())
	if err != nil {
		return err
	}
	if committed == snapshot {
		return nil
	}

	d.apply(committed, caret)
	return nil
}

// Ingest builds an inline span per readable file, in payload order,
// inserts them at caret, and commits the result. It returns the
// committed content and the caret offset just past the inserted spans.
// A file whose bytes cannot be read, or that is not recognizably an
// image, is skipped; the rest of the drop proceeds.
func (d *DropPipeline) Ingest(ctx context.Context, files []DropFile, content string, caret int) (string, int, error) {
	if caret < 0 {
		caret = 0
	}
	if caret > len(content) {
		caret = len(content)
	}

	var spans strings.Builder
	for _, file := range files {
		if file == nil {
			continue
		}
		data, err := file.Bytes(ctx)
		if err != nil {
			d.logger.Warn("skipping unreadable dropped file", "name", file.Name(), "error", err)
			continue
		}
		if len(data) == 0 {
			d.logger.Warn("skipping empty dropped file", "name", file.Name())
			continue
		}
		mediaType, ok := dropMediaType(file.Name(), data)
		if !ok {
			d.logger.Warn("skipping non-image dropped file", "name", file.Name())
			continue
		}
		spans.WriteString(assetref.InlineSpan(dropAltText(file.Name()), mediaType, data))
	}
	if spans.Len() == 0 {
		return content, caret, nil
	}

	updated := content[:caret] + spans.String() + content[caret:]
	committed, err := d.codec.Commit(ctx, updated)
	if err != nil {
		return "", 0, fmt.Errorf("commit dropped images: %w", err)
	}

	// The inserted inline spans shrank into reference spans during
	// commit; the length delta lands the caret just after them.
	newCaret := caret + len(committed) - len(content)
	if newCaret < 0 {
		newCaret = 0
	}
	if newCaret > len(committed) {
		newCaret = len(committed)
	}
	return committed, newCaret, nil
}

func dropAltText(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		return "dropped image"
	}
	return base
}

// dropMediaType identifies a dropped file's image type. Sniffed bytes
// win; otherwise the file extension must name a known image format. A
// file that is neither is not an image and must not enter the store.
func dropMediaType(name string, data []byte) (string, bool) {
	if sniffed, ok := sniffMediaType(data); ok {
		return sniffed, true
	}
	return assetref.MediaTypeForExtension(filepath.Ext(name))
}
