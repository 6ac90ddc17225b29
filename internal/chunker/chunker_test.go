package chunker

import (
	"strings"
	"testing"
)

func TestSplitEmpty(t *testing.T) {
	if chunks := Split("", 100, 20); chunks != nil {
		t.Errorf("empty text should return nil, got %v", chunks)
	}
	if chunks := Split("   \n\t  ", 100, 20); chunks != nil {
		t.Errorf("whitespace-only text should return nil, got %v", chunks)
	}
}

func TestSplitSingleParagraph(t *testing.T) {
	chunks := Split("just a short paragraph", 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "just a short paragraph" {
		t.Errorf("chunk: got %q", chunks[0])
	}
}

func TestSplitAccumulatesParagraphs(t *testing.T) {
	text := "first paragraph.\n\nsecond paragraph.\n\nthird paragraph."
	chunks := Split(text, 40, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(chunks), chunks)
	}
	// Paragraphs that fit together share a chunk, joined by a blank line.
	if !strings.Contains(chunks[0], "\n\n") {
		t.Errorf("first chunk should contain two paragraphs, got %q", chunks[0])
	}
}

func TestSplitRespectsTargetSize(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
	target := 100
	chunks := Split(text, target, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) > target {
			t.Errorf("chunk %d exceeds target: len=%d %q", i, len(ch), ch)
		}
	}
}

func TestSplitOversizeWord(t *testing.T) {
	// A single unsplittable unit may exceed the target; nothing else may.
	long := strings.Repeat("x", 50)
	chunks := Split("tiny "+long+" tail", 20, 0)
	for _, ch := range chunks {
		if len(ch) > 20 && strings.ContainsRune(strings.TrimSpace(ch), ' ') {
			t.Errorf("oversize chunk is not a single word: %q", ch)
		}
	}
	found := false
	for _, ch := range chunks {
		if strings.Contains(ch, long) {
			found = true
		}
	}
	if !found {
		t.Error("long word was lost")
	}
}

func TestSplitLongParagraphTailAbsorbsNext(t *testing.T) {
	long := strings.Repeat("Sentence number one here. ", 8) + "Short tail."
	text := long + "\n\nfollow-up."
	chunks := Split(text, 60, 0)
	last := chunks[len(chunks)-1]
	if !strings.Contains(last, "follow-up.") {
		t.Fatalf("last chunk should contain the following paragraph, got %q", last)
	}
	if !strings.Contains(last, "Short tail.") {
		t.Errorf("long paragraph's tail should seed the chunk that absorbs the next paragraph, got %q", last)
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta. ", 30) + "\n\nEpsilon zeta.\n\n" +
		strings.Repeat("Eta theta iota kappa. ", 20)
	a := Split(text, 120, 30)
	b := Split(text, 120, 30)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs:\n%q\n%q", i, a[i], b[i])
		}
	}
}

func TestSplitOverlapProperty(t *testing.T) {
	text := strings.Repeat("Words to fill the chunks with content. ", 40)
	target, overlap := 150, 40
	originals := Split(text, target, 0)
	overlapped := Split(text, target, overlap)
	if len(originals) != len(overlapped) {
		t.Fatalf("overlap must not change chunk count: %d vs %d", len(originals), len(overlapped))
	}
	if overlapped[0] != originals[0] {
		t.Errorf("chunk 0 must receive no overlap")
	}
	for i := 1; i < len(overlapped); i++ {
		if !strings.HasSuffix(overlapped[i], originals[i]) {
			t.Errorf("chunk %d must end with its original text", i)
			continue
		}
		prefix := strings.TrimSuffix(overlapped[i], " "+originals[i])
		if len(prefix) > overlap {
			t.Errorf("chunk %d overlap prefix too long: %d > %d", i, len(prefix), overlap)
		}
		if prefix != "" && !strings.Contains(originals[i-1], prefix) {
			t.Errorf("chunk %d prefix %q not found in previous chunk", i, prefix)
		}
	}
}

func TestSplitIntroScenario(t *testing.T) {
	text := "Intro.\n\nThis is paragraph one. This is paragraph two."
	chunks := Split(text, 40, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected 2+ chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "Intro." {
		t.Errorf("first chunk: got %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "Intro.") {
		t.Errorf("second chunk should start with overlap from the first, got %q", chunks[1])
	}
}

func TestChunkDocument(t *testing.T) {
	text := "1. OVERVIEW\n\nThe overview body text goes here.\n\n2. DETAILS\n\nThe details body text goes here."
	chunks := ChunkDocument("doc1", text, 45, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d Index=%d", i, ch.Index)
		}
		if ch.DocumentID != "doc1" {
			t.Errorf("chunk %d DocumentID=%s", i, ch.DocumentID)
		}
		if ch.Section == "" {
			t.Errorf("chunk %d has empty section", i)
		}
	}
	if chunks[0].Section != "1. OVERVIEW" {
		t.Errorf("first section: got %q", chunks[0].Section)
	}
}

func TestChunkDocumentEmpty(t *testing.T) {
	if chunks := ChunkDocument("d", "", 100, 10); chunks != nil {
		t.Errorf("empty text should yield nil chunks, got %v", chunks)
	}
}
