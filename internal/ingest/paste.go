package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/assetref"
)

// PastePipeline ingests images arriving via clipboard paste. One
// long-lived pipeline serves one open editor view; it holds no
// process-wide state.
//
// A paste carrying no image payload is ignored entirely so text pastes
// fall through to the editor's default handling. Only the first image
// item of a multi-item payload is ingested; a paste has no UI
// affordance for ordering several images at once.
type PastePipeline struct {
	codec   *assetref.Codec
	content func() string
	apply   func(string)
	logger  *slog.Logger
}

// NewPastePipeline constructs a paste pipeline. content snapshots the
// live document, apply replaces it with committed content.
func NewPastePipeline(codec *assetref.Codec, content func() string, apply func(string), logger *slog.Logger) *PastePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &PastePipeline{codec: codec, content: content, apply: apply, logger: logger}
}

// Listen subscribes the pipeline to a clipboard source. The returned
// stop func releases the subscription and must be called on teardown.
func (p *PastePipeline) Listen(ctx context.Context, source ClipboardSource) (func(), error) {
	if source == nil {
		return nil, fmt.Errorf("clipboard source is required")
	}
	release, err := source.Subscribe(func(evt ClipboardEvent) {
		if err := p.HandlePaste(ctx, evt); err != nil {
			p.logger.Warn("paste ingestion failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

// HandlePaste processes one paste event. Failure to read or recognize
// the image payload makes the whole paste a no-op; the document is
// never left partially updated.
func (p *PastePipeline) HandlePaste(ctx context.Context, evt ClipboardEvent) error {
	if p == nil || p.codec == nil {
		return fmt.Errorf("paste pipeline is not configured")
	}
	if evt == nil {
		return nil
	}

	item := firstImageItem(evt.Items())
	if item == nil {
		return nil
	}
	// Claimed: stop the platform paste from inserting the raw image a
	// second time.
	evt.SuppressDefault()

	data, err := item.Bytes(ctx)
	if err != nil {
		return fmt.Errorf("read clipboard image: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("clipboard image item is empty")
	}

	mediaType := item.MediaType()
	if sniffed, ok := sniffMediaType(data); ok {
		mediaType = sniffed
	}

	// Snapshot taken here; a concurrent paste or user edit that lands
	// after this point loses to this ingestion's final swap.
	snapshot := p.content()
	updated := appendSpan(snapshot, assetref.InlineSpan("pasted image", mediaType, data))

	committed, err := p.codec.Commit(ctx, updated)
	if err != nil {
		return fmt.Errorf("commit pasted image: %w", err)
	}

	p.apply(committed)
	return nil
}

func firstImageItem(items []ClipboardItem) ClipboardItem {
	for _, item := range items {
		if item != nil && isImageMediaType(item.MediaType()) {
			return item
		}
	}
	return nil
}

func appendSpan(content, span string) string {
	if content == "" {
		return span
	}
	if strings.HasSuffix(content, "\n") {
		return content + span
	}
	return content + "\n" + span
}
