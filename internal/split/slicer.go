package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrInvalidRange marks a segment whose page range does not fit the source
// document. Such segments are skipped, not fatal.
var ErrInvalidRange = errors.New("segment page range outside source document")

// Slice is one per-document PDF written to disk.
type Slice struct {
	Segment Segment `json:"segment"`
	Path    string  `json:"path"`
}

var filenameUnsafe = regexp.MustCompile(`[^\w-]+`)

// sliceFilename builds the artifact name for a segment. Page numbers in
// the name are 1-based, matching what a reader sees in a PDF viewer.
func sliceFilename(seg Segment) string {
	id := filenameUnsafe.ReplaceAllString(seg.DocumentID, "_")
	id = strings.Trim(id, "_")
	if id == "" {
		id = UnknownDocumentID
	}
	name := fmt.Sprintf("GO_%s", id)
	if seg.Date != "" {
		name += "_" + seg.Date
	}
	return fmt.Sprintf("%s_Pages_%d-%d.pdf", name, seg.StartPage+1, seg.EndPage+1)
}

// Slicer writes per-segment PDFs out of a source bundle.
type Slicer struct {
	logger *slog.Logger
}

func NewSlicer(logger *slog.Logger) *Slicer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slicer{logger: logger}
}

// SliceSegment extracts one segment into outDir. The source bundle is never
// modified. Returns ErrInvalidRange when the segment does not fit within
// totalPages.
func (s *Slicer) SliceSegment(bundlePath string, seg Segment, totalPages int, outDir string) (Slice, error) {
	if seg.StartPage < 0 || seg.EndPage >= totalPages || seg.EndPage < seg.StartPage {
		return Slice{}, fmt.Errorf("%w: %s pages %d-%d of %d",
			ErrInvalidRange, seg.DocumentID, seg.StartPage, seg.EndPage, totalPages)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Slice{}, fmt.Errorf("creating slice directory: %w", err)
	}

	outPath := filepath.Join(outDir, sliceFilename(seg))
	pageRange := fmt.Sprintf("%d-%d", seg.StartPage+1, seg.EndPage+1)
	if err := api.TrimFile(bundlePath, outPath, []string{pageRange}, nil); err != nil {
		return Slice{}, fmt.Errorf("slicing %s pages %s: %w", seg.DocumentID, pageRange, err)
	}

	return Slice{Segment: seg, Path: outPath}, nil
}

// SliceAll writes every valid segment. Invalid ranges are logged and
// skipped so one bad segment cannot sink the rest of the bundle.
func (s *Slicer) SliceAll(ctx context.Context, bundlePath string, segments []Segment, totalPages int, outDir string) ([]Slice, error) {
	slices := make([]Slice, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return slices, err
		}
		sl, err := s.SliceSegment(bundlePath, seg, totalPages, outDir)
		if err != nil {
			if errors.Is(err, ErrInvalidRange) {
				s.logger.Warn("skipping segment with invalid range",
					"document", seg.DocumentID, "start", seg.StartPage, "end", seg.EndPage)
				continue
			}
			return slices, err
		}
		s.logger.Info("wrote slice", "document", sl.Segment.DocumentID,
			"pages", sl.Segment.PageCount(), "path", sl.Path)
		slices = append(slices, sl)
	}
	return slices, nil
}
