package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
)

type fakeFile struct {
	name string
	data []byte
	err  error
}

func (f *fakeFile) Name() string { return f.name }

func (f *fakeFile) Bytes(ctx context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeDrop struct {
	files      []DropFile
	pos        Point
	caret      int
	suppressed bool
}

func (e *fakeDrop) Files() []DropFile { return e.files }
func (e *fakeDrop) Position() Point   { return e.pos }
func (e *fakeDrop) Caret() int        { return e.caret }
func (e *fakeDrop) SuppressDefault()  { e.suppressed = true }

type dropDoc struct {
	content string
	caret   int
}

func newDropFixture(t *testing.T) (*DropPipeline, *assetstore.Memory, *dropDoc) {
	t.Helper()
	store := assetstore.NewMemory()
	doc := &dropDoc{}
	pipeline := NewDropPipeline(assetref.NewCodec(store),
		func() string { return doc.content },
		func(content string, caret int) {
			doc.content = content
			doc.caret = caret
		}, nil)
	return pipeline, store, doc
}

func TestDropIngestsAllFilesInOrder(t *testing.T) {
	pipeline, store, doc := newDropFixture(t)
	doc.content = "head|tail"
	caret := len("head|")

	evt := &fakeDrop{
		files: []DropFile{
			&fakeFile{name: "one.png", data: []byte("file one")},
			&fakeFile{name: "two.jpg", data: []byte("file two")},
			&fakeFile{name: "three.gif", data: []byte("file three")},
		},
		caret: caret,
	}
	if err := pipeline.HandleDrop(context.Background(), evt); err != nil {
		t.Fatalf("handle drop: %v", err)
	}
	if !evt.suppressed {
		t.Fatalf("default drop action was not suppressed")
	}

	refs := assetref.References(doc.content)
	if len(refs) != 3 {
		t.Fatalf("expected three reference spans, got %v", refs)
	}
	if !strings.HasSuffix(refs[0], ".png") || !strings.HasSuffix(refs[1], ".jpg") || !strings.HasSuffix(refs[2], ".gif") {
		t.Fatalf("file order not preserved: %v", refs)
	}
	if store.Len() != 3 {
		t.Fatalf("expected three blobs, got %d", store.Len())
	}

	if !strings.HasPrefix(doc.content, "head|") || !strings.HasSuffix(doc.content, "tail") {
		t.Fatalf("surrounding content disturbed: %q", doc.content)
	}
	insertedLen := len(doc.content) - len("head|tail")
	if doc.caret != caret+insertedLen {
		t.Fatalf("caret = %d, want %d", doc.caret, caret+insertedLen)
	}
	// The caret must land exactly between the inserted spans and the
	// original suffix.
	if doc.content[doc.caret:] != "tail" {
		t.Fatalf("caret not positioned before original suffix: %q", doc.content[doc.caret:])
	}
	if assetref.HasInline(doc.content) {
		t.Fatalf("inline payload leaked: %q", doc.content)
	}
}

func TestDropSkipsUnreadableFile(t *testing.T) {
	pipeline, store, doc := newDropFixture(t)

	evt := &fakeDrop{files: []DropFile{
		&fakeFile{name: "good.png", data: []byte("good")},
		&fakeFile{name: "bad.png", err: fmt.Errorf("io error")},
		&fakeFile{name: "also-good.png", data: []byte("also good")},
	}}
	if err := pipeline.HandleDrop(context.Background(), evt); err != nil {
		t.Fatalf("handle drop: %v", err)
	}
	if refs := assetref.References(doc.content); len(refs) != 2 {
		t.Fatalf("expected the two readable files, got %v", refs)
	}
	if store.Len() != 2 {
		t.Fatalf("expected two blobs, got %d", store.Len())
	}
}

func TestDropSkipsNonImageFiles(t *testing.T) {
	pipeline, store, doc := newDropFixture(t)

	evt := &fakeDrop{files: []DropFile{
		&fakeFile{name: "notes.txt", data: []byte("just text")},
		&fakeFile{name: "tool.exe", data: []byte{0x4d, 0x5a, 0x90}},
		&fakeFile{name: "pic.png", data: []byte("png payload")},
	}}
	if err := pipeline.HandleDrop(context.Background(), evt); err != nil {
		t.Fatalf("handle drop: %v", err)
	}

	refs := assetref.References(doc.content)
	if len(refs) != 1 || !strings.HasSuffix(refs[0], ".png") {
		t.Fatalf("expected only the image file, got %v", refs)
	}
	if store.Len() != 1 {
		t.Fatalf("non-image bytes reached the store: %d blobs", store.Len())
	}
	if strings.Contains(doc.content, "notes") || strings.Contains(doc.content, "tool") {
		t.Fatalf("skipped files left spans behind: %q", doc.content)
	}
}

func TestDropWithNoFilesIsNoOp(t *testing.T) {
	pipeline, store, doc := newDropFixture(t)
	doc.content = "unchanged"
	doc.caret = -1

	if err := pipeline.HandleDrop(context.Background(), &fakeDrop{caret: 3}); err != nil {
		t.Fatalf("handle drop: %v", err)
	}
	if doc.content != "unchanged" || doc.caret != -1 || store.Len() != 0 {
		t.Fatalf("empty drop had side effects: %q caret=%d blobs=%d", doc.content, doc.caret, store.Len())
	}
}

func TestDropClampsCaret(t *testing.T) {
	pipeline, _, _ := newDropFixture(t)

	content := "short"
	committed, caret, err := pipeline.Ingest(context.Background(),
		[]DropFile{&fakeFile{name: "a.png", data: []byte("x")}}, content, 999)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasPrefix(committed, "short![") {
		t.Fatalf("span not appended at clamped caret: %q", committed)
	}
	if caret != len(committed) {
		t.Fatalf("caret = %d, want %d", caret, len(committed))
	}
}

func TestDragStateTransitions(t *testing.T) {
	pipeline, _, _ := newDropFixture(t)
	pipeline.SetBounds(Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50})

	if pipeline.State() != DragIdle {
		t.Fatalf("expected initial DragIdle")
	}

	pipeline.HandleDragOver(Point{X: 10, Y: 10})
	if pipeline.State() != DragOver {
		t.Fatalf("expected DragOver inside bounds")
	}

	// dragleave fired by a child boundary: pointer still inside.
	pipeline.HandleDragLeave(Point{X: 50, Y: 25})
	if pipeline.State() != DragOver {
		t.Fatalf("child-boundary dragleave must not reset state")
	}

	pipeline.HandleDragLeave(Point{X: 150, Y: 25})
	if pipeline.State() != DragIdle {
		t.Fatalf("expected DragIdle after leaving bounds")
	}

	pipeline.HandleDragOver(Point{X: 10, Y: 10})
	if err := pipeline.HandleDrop(context.Background(), &fakeDrop{}); err != nil {
		t.Fatalf("handle drop: %v", err)
	}
	if pipeline.State() != DragIdle {
		t.Fatalf("expected DragIdle after drop")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}
	inside := []Point{{10, 10}, {15, 15}, {19.9, 19.9}}
	outside := []Point{{9, 15}, {20, 15}, {15, 20}, {0, 0}}
	for _, p := range inside {
		if !r.Contains(p) {
			t.Fatalf("expected %v inside %v", p, r)
		}
	}
	for _, p := range outside {
		if r.Contains(p) {
			t.Fatalf("expected %v outside %v", p, r)
		}
	}
}
