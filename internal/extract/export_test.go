package extract

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleDocument() *Document {
	return &Document{
		SourceMarkdown: "GO_10_Pages_1-3.md",
		Metadata: Metadata{
			GomsNo:   "10",
			Abstract: "Civil Services Rules amendment.",
			SignedBy: "Secretary to Government",
		},
		References: []string{"G.O.Ms.No. 151, Finance Department, dated 12-08-2019."},
		Amendments: []Amendment{
			{
				RuleNo:       "12",
				Clause:       "a",
				TypeOfAction: ActionSubstitute,
				UpdatedText:  "revised clause text",
				Confidence:   ConfidenceMedium,
				Raw:          `(1) In rule 12, for clause (a) ...`,
			},
		},
		DroppedBlocks: 1,
	}
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()

	jsonPath, summaryPath, err := Export(doc, dir, "GO_10")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Base(jsonPath) != "GO_10.json" || filepath.Base(summaryPath) != "GO_10.md" {
		t.Errorf("export paths = %q, %q", jsonPath, summaryPath)
	}

	got, err := ReadJSON(jsonPath)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestSummaryContent(t *testing.T) {
	md := Summary(sampleDocument())

	for _, want := range []string{
		"# G.O.Ms.No. 10",
		"**Abstract:** Civil Services Rules amendment.",
		"1. G.O.Ms.No. 151, Finance Department, dated 12-08-2019.",
		"## Amendments (1)",
		"- **Rule:** 12",
		"- **Action:** substitute",
		"- **Confidence:** medium",
		"_1 amendment block(s) could not be parsed and were dropped._",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestSummaryUnknownDocument(t *testing.T) {
	md := Summary(&Document{})

	if !strings.Contains(md, "# G.O.Ms.No. Unknown") {
		t.Errorf("summary = %q", md)
	}
	if !strings.Contains(md, "## Amendments (0)") {
		t.Errorf("summary = %q", md)
	}
}
