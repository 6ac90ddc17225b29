package chunker

import (
	"strings"
	"unicode"
)

// DefaultSection is the section label before any heading has been seen.
const DefaultSection = "Introduction"

// maxHeadingLength bounds how long a line may be and still count as a heading.
const maxHeadingLength = 100

// SectionLabeler carries the current section heading across the chunk sequence
// of one document. It is an explicit fold: sequential state threaded chunk to
// chunk, keeping the chunker itself pure. Not safe for concurrent use; create
// one per document.
type SectionLabeler struct {
	current string
}

// NewSectionLabeler returns a labeler starting at DefaultSection.
func NewSectionLabeler() *SectionLabeler {
	return &SectionLabeler{current: DefaultSection}
}

// Label inspects the first two lines of chunk for a heading and returns the
// section this chunk belongs to. A detected heading becomes the current
// section for this and all subsequent chunks until the next heading.
func (l *SectionLabeler) Label(chunk string) string {
	if heading, ok := detectHeading(chunk); ok {
		l.current = heading
	}
	return l.current
}

// detectHeading checks the first two lines of chunk for a numbered heading
// ("1. Overview"), an all-caps heading ("BACKGROUND"), or a markdown heading.
func detectHeading(chunk string) (string, bool) {
	lines := strings.Split(chunk, "\n")
	if len(lines) > 2 {
		lines = lines[:2]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= maxHeadingLength {
			continue
		}
		if strings.HasPrefix(line, "#") || startsNumbered(line) || isAllUpper(line) {
			return strings.TrimSpace(strings.TrimLeft(line, "#")), true
		}
	}
	return "", false
}

// startsNumbered reports whether line opens with digits followed by a period
// within the first 5 characters.
func startsNumbered(line string) bool {
	if line == "" || !unicode.IsDigit(rune(line[0])) {
		return false
	}
	head := line
	if len(head) > 5 {
		head = head[:5]
	}
	return strings.Contains(head, ".")
}

// isAllUpper reports whether line contains letters and none of them lowercase,
// and is long enough to not be an acronym in running text.
func isAllUpper(line string) bool {
	if len(line) <= 3 {
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
