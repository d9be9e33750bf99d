package extract

import (
	"reflect"
	"strings"
	"testing"
)

const sampleOrder = `## GOVERNMENT OF ANDHRA PRADESH

## ABSTRACT

Public Services - Civil Services Rules - Amendment - Orders - Issued.

**G.O.Ms.No. 10 Dated: 15-03-2022**

Read the following:-

1. G.O.Ms.No. 151, Finance Department, dated 12-08-2019.
2. From the Secretary, letter No. 123, dated 01-01-2021.

## ORDER:

The appended notification will be published in the Gazette.

## AMENDMENT

(1) In rule 12, for clause (a), the following shall be substituted, namely:- "revised clause text"

(2) In rule 15, sub-rule (2) shall be omitted.

(BY ORDER AND IN THE NAME OF THE GOVERNOR)

Secretary to Government
`

func TestAmendmentSection(t *testing.T) {
	section := AmendmentSection(sampleOrder)

	if !strings.Contains(section, "In rule 12") || !strings.Contains(section, "In rule 15") {
		t.Errorf("section missing amendment text:\n%s", section)
	}
	if strings.Contains(section, "BY ORDER") {
		t.Errorf("section includes signature block:\n%s", section)
	}
	if strings.Contains(section, "Gazette") {
		t.Errorf("section includes pre-amendment body:\n%s", section)
	}
}

func TestAmendmentSectionAbsent(t *testing.T) {
	if s := AmendmentSection("## ORDER:\nSanction is accorded.\n"); s != "" {
		t.Errorf("got section %q from order with no amendments", s)
	}
}

func TestSplitBlocksNumbered(t *testing.T) {
	blocks := SplitBlocks(AmendmentSection(sampleOrder))

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2:\n%q", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0], "(1) In rule 12") {
		t.Errorf("block 0 = %q", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "(2) In rule 15") {
		t.Errorf("block 1 = %q", blocks[1])
	}
}

func TestSplitBlocksKeywordFallback(t *testing.T) {
	section := `In rule 7, the proviso shall be omitted.
For clause (b) of rule 9, the following shall be substituted, namely:- "new text"`

	blocks := SplitBlocks(section)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2:\n%q", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[1], "For clause (b)") {
		t.Errorf("block 1 = %q", blocks[1])
	}
}

func TestSplitBlocksWholeSectionFallback(t *testing.T) {
	section := "The Schedule shall be renumbered as Schedule I."
	blocks := SplitBlocks(section)

	if len(blocks) != 1 || blocks[0] != section {
		t.Errorf("blocks = %q, want whole section as one block", blocks)
	}
}

func TestSplitBlocksEmpty(t *testing.T) {
	if blocks := SplitBlocks("  \n "); blocks != nil {
		t.Errorf("blocks = %q, want nil", blocks)
	}
}

func TestReferences(t *testing.T) {
	refs := References(sampleOrder)

	want := []string{
		"G.O.Ms.No. 151, Finance Department, dated 12-08-2019.",
		"From the Secretary, letter No. 123, dated 01-01-2021.",
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("References() = %q, want %q", refs, want)
	}
}

func TestReferencesAbsent(t *testing.T) {
	if refs := References("## ORDER:\nNo preamble here.\n"); refs != nil {
		t.Errorf("References() = %q, want nil", refs)
	}
}

func TestEffectiveDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "deemed retrospective with written date",
			text: "This amendment shall be deemed to have come into force from the 1st April, 2023.",
			want: "1st April, 2023",
		},
		{
			name: "numeric date",
			text: "These rules shall come into force on and from 01-04-2023.",
			want: "01-04-2023",
		},
		{
			name: "no commencement clause",
			text: sampleOrder,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveDate(tt.text); got != tt.want {
				t.Errorf("EffectiveDate() = %q, want %q", got, tt.want)
			}
		})
	}
}
