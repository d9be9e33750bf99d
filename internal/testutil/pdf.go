// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// TestingT is the subset of testing.T the helpers need.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// WriteMinimalPDF writes a structurally valid PDF with the given number of
// empty pages. The pages carry no text; tests that need page text inject
// it separately.
func WriteMinimalPDF(t TestingT, path string, pages int) {
	t.Helper()
	if err := os.WriteFile(path, MinimalPDFBytes(pages), 0o644); err != nil {
		t.Fatalf("writing test pdf: %v", err)
	}
}

// MinimalPDFBytes builds a minimal valid PDF in memory, xref byte offsets
// computed as the body is emitted.
func MinimalPDFBytes(pages int) []byte {
	var buf bytes.Buffer
	offsets := make([]int, pages+3)
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		writeObj(3+i, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xrefPos := buf.Len()
	size := pages + 3
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefPos)

	return buf.Bytes()
}
