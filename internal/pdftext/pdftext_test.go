package pdftext

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/govtorders/goms/internal/testutil"
)

func newTestExtractor(binary string) *Extractor {
	return New(Config{
		OCRBinary: binary,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.pdf")
	testutil.WriteMinimalPDF(t, path, 3)

	e := newTestExtractor("ocrmypdf")
	count, err := e.PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestPageCountMissingFile(t *testing.T) {
	e := newTestExtractor("ocrmypdf")
	if _, err := e.PageCount(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPageTextsWithoutTextLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	testutil.WriteMinimalPDF(t, path, 3)

	e := newTestExtractor("ocrmypdf")
	texts, err := e.PageTexts(path)
	if err != nil {
		t.Fatalf("PageTexts: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("got %d pages, want 3", len(texts))
	}
	for i, text := range texts {
		if text != "" {
			t.Errorf("page %d: expected empty text, got %q", i, text)
		}
	}
}

func TestOCRAvailable(t *testing.T) {
	e := newTestExtractor("definitely-not-a-real-binary")
	if e.OCRAvailable() {
		t.Error("expected OCRAvailable to be false for a bogus binary")
	}
}

func TestOCRPassDegradesWithoutBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.pdf")
	testutil.WriteMinimalPDF(t, path, 1)

	e := newTestExtractor("definitely-not-a-real-binary")
	got, cleanup := e.OCRPass(context.Background(), path, dir)
	defer cleanup()

	if got != path {
		t.Errorf("expected original path back, got %q", got)
	}
}
