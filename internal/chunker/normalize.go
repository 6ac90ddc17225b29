package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// hyphenBreak matches a hyphenated line break ("exam-\nple" -> "example").
	hyphenBreak = regexp.MustCompile(`-\n`)
	// spacedMarker matches numeric list markers with stray spaces ("1 ." -> "1.").
	spacedMarker = regexp.MustCompile(`(\d+)\s+\.`)
	// blankLine matches a paragraph boundary: a newline, optional whitespace, newline.
	blankLine = regexp.MustCompile(`\n[ \t]*\n`)
)

// Normalize prepares raw extracted text for chunking: line endings are unified,
// hyphenated line breaks are collapsed, spaced numeric list markers are
// tightened, and the result is trimmed. Newlines are preserved so paragraph
// boundaries stay detectable; per-paragraph whitespace collapsing happens
// during paragraph splitting.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = hyphenBreak.ReplaceAllString(text, "")
	text = spacedMarker.ReplaceAllString(text, "$1.")
	return strings.TrimSpace(text)
}

// splitParagraphs splits normalized text on blank-line boundaries and collapses
// each paragraph's internal whitespace to single spaces. Empty paragraphs are
// dropped. Paragraph detection runs before whitespace collapsing; collapsing
// first would destroy the blank-line boundaries it depends on.
func splitParagraphs(text string) []string {
	raw := blankLine.Split(text, -1)
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = collapseWhitespace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

// collapseWhitespace trims s and collapses every whitespace run to one space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	wasSpace := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
