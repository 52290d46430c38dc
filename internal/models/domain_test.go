package models

import (
	"strings"
	"testing"
)

func TestNormalizeFolderName(t *testing.T) {
	if _, err := NormalizeFolderName(""); err == nil {
		t.Fatalf("empty folder name must be rejected")
	}
	if _, err := NormalizeFolderName("a\nb"); err == nil {
		t.Fatalf("multi-line folder name must be rejected")
	}
	if _, err := NormalizeFolderName(strings.Repeat("x", 121)); err == nil {
		t.Fatalf("overlong folder name must be rejected")
	}
	name, err := NormalizeFolderName("  Work Notes  ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if name != "Work Notes" {
		t.Fatalf("got %q", name)
	}
}

func TestNormalizeMemoTitle(t *testing.T) {
	title, err := NormalizeMemoTitle("")
	if err != nil || title != "" {
		t.Fatalf("empty title should be allowed, got %q err=%v", title, err)
	}
	if _, err := NormalizeMemoTitle(strings.Repeat("x", 251)); err == nil {
		t.Fatalf("overlong title must be rejected")
	}
	if _, err := NormalizeMemoTitle("a\rb"); err == nil {
		t.Fatalf("multi-line title must be rejected")
	}
}
