package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoBoundaries is returned when a bundle yields no segments at all,
// usually a sign of a scan with no text layer and OCR unavailable.
var ErrNoBoundaries = errors.New("no document boundaries detected in bundle")

// TextSource provides page-level text access to a PDF, including an
// optional OCR pre-pass for scanned bundles.
type TextSource interface {
	OCRPass(ctx context.Context, pdfPath, workDir string) (string, func())
	PageCount(pdfPath string) (int, error)
	PageTexts(pdfPath string) ([]string, error)
}

// BatchClassifier is the oracle-assisted classification strategy.
type BatchClassifier interface {
	Classify(ctx context.Context, texts []string) ([]PageClassification, error)
}

// Result is the outcome of splitting one bundle.
type Result struct {
	TotalPages int       `json:"total_pages"`
	Segments   []Segment `json:"segments"`
	Slices     []Slice   `json:"slices"`
}

// Splitter runs the full boundary-detection and slicing stage for a bundle.
type Splitter struct {
	source TextSource
	regex  RegexClassifier
	oracle BatchClassifier
	slicer *Slicer
	logger *slog.Logger

	useOracle bool
}

// Options configures a Splitter. Oracle may be nil, in which case the
// deterministic strategy is used regardless of UseOracle.
type Options struct {
	Source    TextSource
	Oracle    BatchClassifier
	UseOracle bool
	Logger    *slog.Logger
}

func NewSplitter(opts Options) *Splitter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		source:    opts.Source,
		oracle:    opts.Oracle,
		useOracle: opts.UseOracle && opts.Oracle != nil,
		slicer:    NewSlicer(logger),
		logger:    logger,
	}
}

// Run splits bundlePath into per-document PDFs under outDir. The source
// bundle is read-only throughout; slices are written from the OCR'd copy
// when a pre-pass ran, so they carry the recovered text layer.
func (s *Splitter) Run(ctx context.Context, bundlePath, outDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workPath, cleanup := s.source.OCRPass(ctx, bundlePath, outDir)
	defer cleanup()

	totalPages, err := s.source.PageCount(workPath)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	if totalPages == 0 {
		return nil, fmt.Errorf("%w: bundle has no pages", ErrNoBoundaries)
	}

	texts, err := s.source.PageTexts(workPath)
	if err != nil {
		return nil, fmt.Errorf("reading page text: %w", err)
	}

	var classifications []PageClassification
	if s.useOracle {
		classifications, err = s.oracle.Classify(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("oracle classification: %w", err)
		}
	} else {
		classifications = s.regex.Classify(texts)
	}

	segments := BuildIndex(classifications, totalPages)
	if len(segments) == 0 {
		return nil, ErrNoBoundaries
	}
	if err := ValidateIndex(segments, totalPages); err != nil {
		return nil, fmt.Errorf("segment index invalid: %w", err)
	}
	s.logger.Info("segment index built", "segments", len(segments), "pages", totalPages)

	slices, err := s.slicer.SliceAll(ctx, workPath, segments, totalPages, outDir)
	if err != nil {
		return nil, err
	}

	return &Result{TotalPages: totalPages, Segments: segments, Slices: slices}, nil
}
