// Package split locates document boundaries in a multi-GO PDF bundle and
// slices the bundle into per-document artifacts.
package split

import (
	"regexp"
	"strings"
)

// PageClassification is the per-page boundary decision.
// Produced once per page; page indices are 0-based.
type PageClassification struct {
	Page       int    `json:"page"`
	IsStart    bool   `json:"is_start"`
	IsEnd      bool   `json:"is_end"`
	DocumentID string `json:"goms_no,omitempty"`
	Date       string `json:"date,omitempty"`
}

// headerWindow bounds how much of a page is inspected for boundary signals.
// GO headers sit in the first few lines; scanning further produces false
// positives from body text that quotes other orders.
const headerWindow = 800

var (
	// goNumberPattern matches G.O.Ms.No with common OCR substitutions
	// (the letter O mis-recognized as the digit 0).
	goNumberPattern = regexp.MustCompile(`(?i)G\.\s?[O0]\.\s?Ms\.\s?No\.?\s*(\d+)`)

	datePattern = regexp.MustCompile(`(?i)Dated[:\s]+([^\n]{5,25})`)

	dateCleanPattern = regexp.MustCompile(`[^\dA-Za-z-]`)

	wideGapPattern = regexp.MustCompile(`\s{2,}`)
)

// RegexClassifier is the deterministic page classifier. It inspects only
// the header region of each page and emits start signals; segmentation is
// always start-to-start, so it never emits end signals.
type RegexClassifier struct{}

// ClassifyPage classifies a single page. Stateless; a page with no
// extractable text is a non-boundary, never an error.
func (RegexClassifier) ClassifyPage(pageIndex int, text string) PageClassification {
	pc := PageClassification{Page: pageIndex}
	if strings.TrimSpace(text) == "" {
		return pc
	}

	header := text
	if len(header) > headerWindow {
		header = header[:headerWindow]
	}
	headerUpper := strings.ToUpper(header)

	hasGovtHeader := strings.Contains(headerUpper, "GOVERNMENT OF")
	hasGoNumber := goNumberPattern.MatchString(header)
	hasAbstract := strings.Contains(headerUpper, "ABSTRACT")

	if !hasGovtHeader || !(hasGoNumber || hasAbstract) {
		return pc
	}

	pc.IsStart = true
	if m := goNumberPattern.FindStringSubmatch(header); m != nil {
		pc.DocumentID = m[1]
	}
	if m := datePattern.FindStringSubmatch(header); m != nil {
		pc.Date = cleanDate(m[1])
	}
	return pc
}

// Classify classifies every page of a bundle in order.
func (c RegexClassifier) Classify(texts []string) []PageClassification {
	out := make([]PageClassification, len(texts))
	for i, text := range texts {
		out[i] = c.ClassifyPage(i, text)
	}
	return out
}

// cleanDate normalizes a raw "Dated:" capture into a filename-safe token.
func cleanDate(raw string) string {
	raw = strings.TrimSpace(raw)
	// Drop trailing run-on text after a wide gap or newline.
	if idx := strings.IndexAny(raw, "\n"); idx >= 0 {
		raw = raw[:idx]
	}
	if parts := wideGapPattern.Split(raw, 2); len(parts) > 0 {
		raw = parts[0]
	}
	cleaned := dateCleanPattern.ReplaceAllString(raw, "-")
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return cleaned
}
