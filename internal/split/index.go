package split

import (
	"fmt"
)

// Segment is one document's contiguous page range within the bundle.
// Page indices are 0-based inclusive.
type Segment struct {
	DocumentID string `json:"goms_no"`
	Date       string `json:"date,omitempty"`
	StartPage  int    `json:"start_page"`
	EndPage    int    `json:"end_page"`
}

// PageCount reports the number of pages the segment spans.
func (s Segment) PageCount() int {
	return s.EndPage - s.StartPage + 1
}

// UnknownDocumentID labels segments whose order number could not be read.
const UnknownDocumentID = "Unknown"

// BuildIndex converts per-page boundary decisions into a start-to-start
// segment index. Each start page opens a segment; the segment closes on the
// page before the next start, on an explicit end signal, or on the last
// page of the bundle. Pages before the first start belong to no segment.
func BuildIndex(classifications []PageClassification, totalPages int) []Segment {
	var segments []Segment
	var open *Segment

	closeAt := func(endPage int) {
		if open == nil {
			return
		}
		open.EndPage = endPage
		segments = append(segments, *open)
		open = nil
	}

	for _, pc := range classifications {
		if pc.Page >= totalPages {
			break
		}
		if pc.IsStart {
			closeAt(pc.Page - 1)
			id := pc.DocumentID
			if id == "" {
				id = UnknownDocumentID
			}
			open = &Segment{DocumentID: id, Date: pc.Date, StartPage: pc.Page}
			if pc.IsEnd {
				closeAt(pc.Page)
			}
			continue
		}
		if pc.IsEnd {
			closeAt(pc.Page)
		}
	}
	closeAt(totalPages - 1)

	return segments
}

// ValidateIndex checks the segment index against the partition invariants
// before any slicing happens: in-bounds ranges, non-empty segments, and no
// overlapping pages between consecutive segments.
func ValidateIndex(segments []Segment, totalPages int) error {
	prevEnd := -1
	for i, seg := range segments {
		if seg.StartPage < 0 || seg.EndPage >= totalPages {
			return fmt.Errorf("segment %d (%s): pages %d-%d out of bounds for %d-page bundle",
				i, seg.DocumentID, seg.StartPage, seg.EndPage, totalPages)
		}
		if seg.EndPage < seg.StartPage {
			return fmt.Errorf("segment %d (%s): end page %d before start page %d",
				i, seg.DocumentID, seg.EndPage, seg.StartPage)
		}
		if seg.StartPage <= prevEnd {
			return fmt.Errorf("segment %d (%s): start page %d overlaps previous segment ending at %d",
				i, seg.DocumentID, seg.StartPage, prevEnd)
		}
		prevEnd = seg.EndPage
	}
	return nil
}
