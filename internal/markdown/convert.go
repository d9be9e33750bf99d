// Package markdown renders sliced GO PDFs into markdown using layout
// heuristics tuned for scanned government orders.
package markdown

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ErrNoText is returned for slices whose pages yield no extractable text,
// typically scans that never went through OCR.
var ErrNoText = errors.New("no extractable text in slice")

// TextSource provides page-level text for a PDF slice.
type TextSource interface {
	PageTexts(pdfPath string) ([]string, error)
}

// headingMaxLen bounds how long an all-caps line can be and still read as
// a section heading rather than shouted body text.
const headingMaxLen = 60

var goLinePattern = regexp.MustCompile(`(?i)^G\.\s?[O0]\.\s?Ms\.\s?No`)

// Converter renders one slice at a time. Safe for concurrent use.
type Converter struct {
	source TextSource
	logger *slog.Logger
}

func NewConverter(source TextSource, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{source: source, logger: logger}
}

// ConvertFile renders pdfPath to markdown and writes it under outDir with
// the slice's basename and a .md extension.
func (c *Converter) ConvertFile(pdfPath, outDir string) (string, error) {
	pages, err := c.source.PageTexts(pdfPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(pdfPath), err)
	}

	md, ok := Render(pages)
	if !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(pdfPath), ErrNoText)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating markdown directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outPath := filepath.Join(outDir, base+".md")
	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown: %w", err)
	}
	return outPath, nil
}

// Render converts extracted page texts to markdown. Returns ok=false when
// no page contains any text.
func Render(pages []string) (string, bool) {
	var b strings.Builder
	hasText := false

	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			hasText = true
			switch {
			case goLinePattern.MatchString(line):
				fmt.Fprintf(&b, "**%s**\n\n", line)
			case isHeadingLine(line):
				fmt.Fprintf(&b, "## %s\n\n", line)
			default:
				b.WriteString(line)
				b.WriteString("\n\n")
			}
		}
	}

	if !hasText {
		return "", false
	}
	return strings.TrimRight(b.String(), "\n") + "\n", true
}

// isHeadingLine treats short all-caps lines as section headings. Lines
// without any letter (page numbers, rules of dashes) do not qualify.
func isHeadingLine(line string) bool {
	if len(line) >= headingMaxLen {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
