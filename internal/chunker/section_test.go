package chunker

import "testing"

func TestSectionLabelerDefault(t *testing.T) {
	l := NewSectionLabeler()
	if got := l.Label("plain body text with no heading"); got != DefaultSection {
		t.Errorf("got %q, want %q", got, DefaultSection)
	}
}

func TestSectionLabelerHeadings(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"numbered", "1. Introduction\nbody text", "1. Introduction"},
		{"all caps", "BACKGROUND\nbody text", "BACKGROUND"},
		{"markdown", "## Methods\nbody text", "Methods"},
		{"second line", "short\n2.1 Results", "2.1 Results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewSectionLabeler()
			if got := l.Label(tt.chunk); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSectionLabelerCarriesForward(t *testing.T) {
	l := NewSectionLabeler()
	if got := l.Label("3. METHODS\ndetails"); got != "3. METHODS" {
		t.Fatalf("got %q", got)
	}
	if got := l.Label("continuation with no heading"); got != "3. METHODS" {
		t.Errorf("section should carry forward, got %q", got)
	}
	if got := l.Label("4. RESULTS\nmore"); got != "4. RESULTS" {
		t.Errorf("new heading should replace section, got %q", got)
	}
}

func TestSectionLabelerIgnoresNonHeadings(t *testing.T) {
	l := NewSectionLabeler()
	// Short acronyms, long lines, and headings past the first two lines do not count.
	l.Label("ABC\nbody")
	if l.current != DefaultSection {
		t.Errorf("3-char acronym should not be a heading, got %q", l.current)
	}
	l.Label("first line\nsecond line\n5. BURIED HEADING")
	if l.current != DefaultSection {
		t.Errorf("heading past first two lines should be ignored, got %q", l.current)
	}
}
