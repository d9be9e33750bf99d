package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export writes the structured record and its human-readable summary under
// dir using base as the filename stem. Returns both paths.
func Export(doc *Document, dir, base string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating export directory: %w", err)
	}

	jsonPath := filepath.Join(dir, base+".json")
	if err := WriteJSON(doc, jsonPath); err != nil {
		return "", "", err
	}

	summaryPath := filepath.Join(dir, base+".md")
	if err := os.WriteFile(summaryPath, []byte(Summary(doc)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing summary: %w", err)
	}
	return jsonPath, summaryPath, nil
}

// WriteJSON writes the document as stable, indented JSON. Struct field
// order keeps the output deterministic for a given document.
func WriteJSON(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// ReadJSON loads a previously exported document.
func ReadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// Summary renders a markdown digest of one extracted order.
func Summary(doc *Document) string {
	var b strings.Builder

	title := doc.Metadata.GomsNo
	if title == "" {
		title = "Unknown"
	}
	fmt.Fprintf(&b, "# G.O.Ms.No. %s\n\n", title)

	if doc.Metadata.Abstract != "" {
		fmt.Fprintf(&b, "**Abstract:** %s\n\n", doc.Metadata.Abstract)
	}
	if doc.Metadata.EffectiveDate != "" {
		fmt.Fprintf(&b, "**Effective date:** %s\n\n", doc.Metadata.EffectiveDate)
	}
	if doc.Metadata.SignedBy != "" {
		fmt.Fprintf(&b, "**Signed by:** %s\n\n", doc.Metadata.SignedBy)
	}

	if len(doc.References) > 0 {
		b.WriteString("## References\n\n")
		for i, ref := range doc.References {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ref)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Amendments (%d)\n\n", len(doc.Amendments))
	for i, a := range doc.Amendments {
		fmt.Fprintf(&b, "### Amendment %d\n\n", i+1)
		writeField(&b, "Rule", a.RuleNo)
		writeField(&b, "Sub-rule", a.SubRule)
		writeField(&b, "Clause", a.Clause)
		writeField(&b, "Sub-clause", a.SubClause)
		writeField(&b, "Proviso", a.ProvisoNo)
		writeField(&b, "Position", a.AdditionalPositionCtx)
		writeField(&b, "Action", string(a.TypeOfAction))
		writeField(&b, "Target", a.TargetText)
		writeField(&b, "Updated", a.UpdatedText)
		writeField(&b, "Confidence", string(a.Confidence))
		b.WriteString("\n")
	}

	if doc.DroppedBlocks > 0 {
		fmt.Fprintf(&b, "_%d amendment block(s) could not be parsed and were dropped._\n", doc.DroppedBlocks)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}
