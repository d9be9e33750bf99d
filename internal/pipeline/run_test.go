package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/govtorders/goms/internal/config"
	"github.com/govtorders/goms/internal/extract"
	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/testutil"
)

const (
	firstOrderText = `GOVERNMENT OF ANDHRA PRADESH
ABSTRACT
G.O.Ms.No. 10
AMENDMENT
In rule 5, clause (a) shall be omitted.
`
	secondOrderText = `GOVERNMENT OF ANDHRA PRADESH
ABSTRACT
G.O.Ms.No. 20
AMENDMENT
In rule 7, sub-rule (2) shall be omitted.
`
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bundleSource serves the two-order bundle and its slices by filename.
type bundleSource struct{}

func (bundleSource) OCRPass(_ context.Context, pdfPath, _ string) (string, func()) {
	return pdfPath, func() {}
}

func (bundleSource) PageCount(string) (int, error) { return 2, nil }

func (bundleSource) PageTexts(pdfPath string) ([]string, error) {
	base := filepath.Base(pdfPath)
	switch {
	case strings.HasPrefix(base, "GO_10"):
		return []string{firstOrderText}, nil
	case strings.HasPrefix(base, "GO_20"):
		return []string{secondOrderText}, nil
	default:
		return []string{firstOrderText, secondOrderText}, nil
	}
}

func newTestRunner(t *testing.T, oracle providers.StructuredOracle) (*Runner, string) {
	t.Helper()

	root := t.TempDir()
	dir, err := home.New(filepath.Join(root, ".goms"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatal(err)
	}

	bundle := filepath.Join(root, "bundle.pdf")
	testutil.WriteMinimalPDF(t, bundle, 2)

	return &Runner{
		cfg:    *config.DefaultConfig(),
		home:   dir,
		oracle: oracle,
		text:   bundleSource{},
		logger: testLogger(),
	}, bundle
}

func TestRunnerRun(t *testing.T) {
	mock := &providers.MockOracle{Responses: []string{
		`{"goms_no": "10", "abstract": "First order."}`,
		`{"rule_no": "5", "clause": "a", "type_of_action": "omit", "target_text": "clause (a)"}`,
		`{"goms_no": "20"}`,
		`[{"rule_no": "7", "sub_rule": "2", "type_of_action": "omit", "target_text": "sub-rule (2)", "confidence": "low"}]`,
	}}
	r, bundle := newTestRunner(t, mock)

	res, err := r.Run(context.Background(), "job-1", bundle)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.TotalPages != 2 || len(res.Segments) != 2 {
		t.Fatalf("result = %+v, want 2 pages in 2 segments", res)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(res.Documents))
	}

	for i, dr := range res.Documents {
		if dr.Error != "" {
			t.Errorf("document %d failed: %s", i, dr.Error)
		}
		if dr.Amendments != 1 {
			t.Errorf("document %d has %d amendments, want 1", i, dr.Amendments)
		}
		if _, err := os.Stat(dr.JSONPath); err != nil {
			t.Errorf("document %d record missing: %v", i, err)
		}
		if _, err := os.Stat(dr.SummaryPath); err != nil {
			t.Errorf("document %d summary missing: %v", i, err)
		}
	}

	doc, err := extract.ReadJSON(res.Documents[0].JSONPath)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.GomsNo != "10" {
		t.Errorf("document 0 metadata = %+v", doc.Metadata)
	}
	if doc.Amendments[0].RuleNo != "5" || doc.Amendments[0].TypeOfAction != extract.ActionOmit {
		t.Errorf("document 0 amendment = %+v", doc.Amendments[0])
	}

	if res.Usage.Totals.Calls != 4 {
		t.Errorf("oracle calls tracked = %d, want 4", res.Usage.Totals.Calls)
	}
}

func TestRunnerRunWithoutOracle(t *testing.T) {
	r, bundle := newTestRunner(t, nil)
	r.oracle = nil

	_, err := r.Run(context.Background(), "job-2", bundle)
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestRunnerRunCancelled(t *testing.T) {
	r, bundle := newTestRunner(t, providers.NewMockOracle(`{}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, "job-3", bundle); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
