// Package pdftext extracts per-page plain text from PDF files.
//
// It combines an optional ocrmypdf pre-pass (to add a text layer to scanned
// documents) with a text-layer reader. The OCR binary is a soft dependency:
// when it is missing or fails, callers proceed with whatever text layer the
// original file carries.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor reads per-page text from PDFs, with an optional OCR pre-pass.
type Extractor struct {
	ocrBinary string
	ocrJobs   int
	logger    *slog.Logger
}

// Config configures an Extractor.
type Config struct {
	// OCRBinary is the ocrmypdf executable (default "ocrmypdf").
	OCRBinary string
	// OCRJobs is passed to ocrmypdf --jobs (default 4).
	OCRJobs int
	Logger  *slog.Logger
}

// New creates a new Extractor.
func New(cfg Config) *Extractor {
	if cfg.OCRBinary == "" {
		cfg.OCRBinary = "ocrmypdf"
	}
	if cfg.OCRJobs <= 0 {
		cfg.OCRJobs = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		ocrBinary: cfg.OCRBinary,
		ocrJobs:   cfg.OCRJobs,
		logger:    logger.With("component", "pdftext"),
	}
}

// OCRAvailable reports whether the ocrmypdf binary can be found.
func (e *Extractor) OCRAvailable() bool {
	_, err := exec.LookPath(e.ocrBinary)
	return err == nil
}

// OCRPass runs ocrmypdf over the input and returns the path to read text
// from, plus a cleanup func for any temporary file created. When OCR is
// unavailable or fails, the original path is returned and a warning logged;
// the existing text layer is used as the degraded result.
func (e *Extractor) OCRPass(ctx context.Context, pdfPath, workDir string) (string, func()) {
	noop := func() {}

	if !e.OCRAvailable() {
		e.logger.Warn("ocrmypdf not found, skipping OCR pre-pass", "file", filepath.Base(pdfPath))
		return pdfPath, noop
	}

	outPath := filepath.Join(workDir, "ocr_"+filepath.Base(pdfPath))

	// --skip-text: skip pages that already carry a text layer.
	cmd := exec.CommandContext(ctx, e.ocrBinary,
		"--skip-text",
		"--jobs", strconv.Itoa(e.ocrJobs),
		pdfPath,
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		e.logger.Warn("ocrmypdf failed, using original PDF",
			"file", filepath.Base(pdfPath), "error", err, "output", string(output))
		os.Remove(outPath)
		return pdfPath, noop
	}

	return outPath, func() { os.Remove(outPath) }
}

// PageCount returns the number of pages in a PDF.
func (e *Extractor) PageCount(pdfPath string) (int, error) {
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

// PageTexts extracts the text layer of every page, in page order.
// Pages without extractable text yield empty strings, never errors.
func (e *Extractor) PageTexts(pdfPath string) ([]string, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	texts := make([]string, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable content stream degrades to an empty page.
			e.logger.Debug("failed to extract page text", "page", i, "error", err)
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}

	return texts, nil
}
