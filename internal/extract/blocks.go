package extract

import (
	"regexp"
	"strings"
)

var (
	amendmentHeading = regexp.MustCompile(`(?im)^[#*\s]*AMENDMENTS?\b`)

	// sectionTerminators end the amendment window; anything after the
	// signature block or a page rule is boilerplate.
	sectionTerminators = []string{"(BY ORDER", "***"}

	numberedItem = regexp.MustCompile(`\(\d+\)\s+In\s+`)
	keywordItem  = regexp.MustCompile(`(?:In\s+rule|In\s+sub-rule|For\s+clause|For\s+sub-clause|After\s+rule)`)

	referencesWindow = regexp.MustCompile(`(?s)Read\s+the\s+following[:\s-]+(.+?)(?:ORDER:|NOTIFICATION|\*\*\*)`)
	leadingItemNo    = regexp.MustCompile(`^(?:\d+[.)]|\(\d+\)|[-*])\s*`)

	effectiveDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)deemed to have come into force.*?from[:\s]+(?:the\s+)?(\d{1,2}(?:st|nd|rd|th)?\s+\w+,?\s+\d{4})`),
		regexp.MustCompile(`(?is)come into force.*?(?:on and from|from)\s+(\d{1,2}[-./]\d{1,2}[-./]\d{4})`),
	}
)

// AmendmentSection returns the text window between the AMENDMENT heading
// and the signature block. Empty string when the document has no such
// section.
func AmendmentSection(markdown string) string {
	loc := amendmentHeading.FindStringIndex(markdown)
	if loc == nil {
		return ""
	}
	section := markdown[loc[1]:]

	cut := len(section)
	upper := strings.ToUpper(section)
	for _, term := range sectionTerminators {
		if idx := strings.Index(upper, term); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(section[:cut])
}

// SplitBlocks carves an amendment section into per-amendment blocks. It
// tries numbered items first, then amendment keywords, and finally falls
// back to the whole section as one block. Boundaries are match starts, so
// each block keeps its own marker text.
func SplitBlocks(section string) []string {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil
	}
	if blocks := splitAt(section, numberedItem); len(blocks) > 1 {
		return blocks
	}
	if blocks := splitAt(section, keywordItem); len(blocks) > 1 {
		return blocks
	}
	return []string{section}
}

// splitAt splits text at the start offset of every pattern match. Text
// before the first match stays attached to nothing and is dropped only if
// blank.
func splitAt(text string, pattern *regexp.Regexp) []string {
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var blocks []string
	if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
		blocks = append(blocks, lead)
	}
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if block := strings.TrimSpace(text[m[0]:end]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// EffectiveDate finds the date an order's changes come into force, either
// as a written date ("1st April, 2023") or a numeric one (01-04-2023).
// Empty string when the order carries no commencement clause.
func EffectiveDate(markdown string) string {
	for _, p := range effectiveDatePatterns {
		if m := p.FindStringSubmatch(markdown); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// References pulls the "Read the following" citation list out of a GO. The
// list sits between the standard preamble and the ORDER or NOTIFICATION
// heading.
func References(markdown string) []string {
	m := referencesWindow.FindStringSubmatch(markdown)
	if m == nil {
		return nil
	}

	var refs []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(strings.Trim(line, "*#"))
		line = strings.TrimSpace(leadingItemNo.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		refs = append(refs, line)
	}
	return refs
}
