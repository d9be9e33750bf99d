package split

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/testutil"
)

type fakeSource struct {
	texts []string
}

func (f fakeSource) OCRPass(_ context.Context, pdfPath, _ string) (string, func()) {
	return pdfPath, func() {}
}

func (f fakeSource) PageCount(string) (int, error) { return len(f.texts), nil }

func (f fakeSource) PageTexts(string) ([]string, error) { return f.texts, nil }

func TestSplitterRun(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "bundle.pdf")
	testutil.WriteMinimalPDF(t, bundle, 5)

	source := fakeSource{texts: []string{
		"GOVERNMENT OF ANDHRA PRADESH\nABSTRACT\nG.O.Ms.No. 10\n",
		"continuation of order ten",
		"annexure",
		"GOVERNMENT OF ANDHRA PRADESH\nABSTRACT\nG.O.Ms.No. 20\n",
		"continuation of order twenty",
	}}
	s := NewSplitter(Options{Source: source})

	res, err := s.Run(context.Background(), bundle, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", res.TotalPages)
	}
	wantSegments := []Segment{
		{DocumentID: "10", StartPage: 0, EndPage: 2},
		{DocumentID: "20", StartPage: 3, EndPage: 4},
	}
	if len(res.Segments) != len(wantSegments) {
		t.Fatalf("segments = %+v, want %+v", res.Segments, wantSegments)
	}
	for i, want := range wantSegments {
		got := res.Segments[i]
		if got.DocumentID != want.DocumentID || got.StartPage != want.StartPage || got.EndPage != want.EndPage {
			t.Errorf("segment %d = %+v, want %+v", i, got, want)
		}
	}

	if len(res.Slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(res.Slices))
	}
	for _, sl := range res.Slices {
		if _, err := os.Stat(sl.Path); err != nil {
			t.Errorf("slice %s not on disk: %v", sl.Path, err)
		}
	}
}

func TestSplitterRunNoBoundaries(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "bundle.pdf")
	testutil.WriteMinimalPDF(t, bundle, 2)

	s := NewSplitter(Options{Source: fakeSource{texts: []string{"plain", "pages"}}})
	_, err := s.Run(context.Background(), bundle, dir)
	if !errors.Is(err, ErrNoBoundaries) {
		t.Errorf("error = %v, want ErrNoBoundaries", err)
	}
}

func TestSplitterRunOracleStrategy(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "bundle.pdf")
	testutil.WriteMinimalPDF(t, bundle, 2)

	mock := providers.NewMockOracle(
		`[{"page": 0, "is_start": true, "goms_no": "5"}, {"page": 1, "is_start": false}]`)
	s := NewSplitter(Options{
		Source:    fakeSource{texts: []string{"scan page one", "scan page two"}},
		Oracle:    NewOracleClassifier(mock, 10, 0, nil, nil),
		UseOracle: true,
	})

	res, err := s.Run(context.Background(), bundle, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if mock.Calls() != 1 {
		t.Errorf("oracle calls = %d, want 1", mock.Calls())
	}
	if len(res.Segments) != 1 || res.Segments[0].DocumentID != "5" {
		t.Errorf("segments = %+v", res.Segments)
	}
}

func TestSplitterRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSplitter(Options{Source: fakeSource{texts: []string{"x"}}})
	if _, err := s.Run(ctx, "unused.pdf", t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
