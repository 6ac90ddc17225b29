// Package chunker splits normalized document text into an ordered sequence of
// overlapping character chunks under a target size, and labels each chunk with
// the section heading it falls under.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/okibi/kotae/internal/models"
)

const (
	// DefaultTargetSize is the chunk size in characters used by the ingestion pipeline.
	DefaultTargetSize = 800
	// DefaultOverlap is the overlap in characters used by the ingestion pipeline.
	DefaultOverlap = 200

	// chunkSeparator joins accumulated paragraphs inside one chunk. Keeping the
	// blank line means heading lines stay detectable by the section labeler.
	chunkSeparator = "\n\n"
)

// oversizeSeparators is the split priority for paragraphs that alone exceed
// the target size: sentences first, then words.
var oversizeSeparators = []string{". ", " "}

// Split splits text into ordered chunks of at most targetSize characters.
// Paragraphs are accumulated greedily; a paragraph that alone exceeds the
// target is split recursively on sentence then word boundaries, with the last
// sub-chunk seeding the next top-level chunk so a long paragraph's tail can
// still absorb subsequent short paragraphs. Every chunk after the first is
// prefixed with the trailing overlap characters of its predecessor, trimmed
// forward to a word boundary. Empty input yields nil. Output is deterministic
// for identical input and parameters.
//
// The only chunks longer than targetSize are single unsplittable words.
func Split(text string, targetSize, overlap int) []string {
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}
	if overlap < 0 {
		overlap = 0
	}
	paragraphs := splitParagraphs(Normalize(text))
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	current := ""
	for _, para := range paragraphs {
		if current == "" {
			if len(para) <= targetSize {
				current = para
				continue
			}
		} else if len(current)+len(para)+len(chunkSeparator) <= targetSize {
			current += chunkSeparator + para
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		if len(para) > targetSize {
			sub := splitWithSeparators(para, oversizeSeparators, targetSize)
			chunks = append(chunks, sub[:len(sub)-1]...)
			current = sub[len(sub)-1]
		} else {
			current = para
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return applyOverlap(chunks, overlap)
}

// ChunkDocument splits text and labels each chunk with its section, producing
// the chunk sequence for one document. Index values are contiguous from 0.
func ChunkDocument(docID, text string, targetSize, overlap int) []models.Chunk {
	pieces := Split(text, targetSize, overlap)
	if len(pieces) == 0 {
		return nil
	}
	labeler := NewSectionLabeler()
	chunks := make([]models.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.Chunk{
			Text:       piece,
			Index:      i,
			DocumentID: docID,
			Section:    labeler.Label(piece),
		}
	}
	return chunks
}

// splitWithSeparators recursively splits text on the first applicable
// separator and greedily re-merges adjacent pieces under targetSize. The
// separator stays attached to each piece except possibly the last. Pieces
// still oversize after merging descend to the next separator; with no
// separators left the text is returned as-is (a single unsplittable unit).
func splitWithSeparators(text string, separators []string, targetSize int) []string {
	if len(text) <= targetSize || len(separators) == 0 {
		return []string{text}
	}
	sep := separators[0]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return splitWithSeparators(text, separators[1:], targetSize)
	}
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += sep
	}
	var out []string
	for _, piece := range mergeSplits(parts, targetSize) {
		if len(piece) > targetSize {
			out = append(out, splitWithSeparators(piece, separators[1:], targetSize)...)
		} else {
			out = append(out, piece)
		}
	}
	return out
}

// mergeSplits greedily accumulates adjacent parts while the result stays
// within targetSize. Separators are already attached, so no extra allowance.
func mergeSplits(parts []string, targetSize int) []string {
	var merged []string
	current := ""
	for _, p := range parts {
		if current != "" && len(current)+len(p) > targetSize {
			merged = append(merged, current)
			current = ""
		}
		current += p
	}
	if current != "" {
		merged = append(merged, current)
	}
	return merged
}

// applyOverlap prefixes every chunk after the first with the trailing overlap
// characters of the previous original (pre-overlap) chunk, trimmed forward to
// the next word boundary so no partial word starts a chunk.
func applyOverlap(chunks []string, overlap int) []string {
	if overlap <= 0 || len(chunks) < 2 {
		return chunks
	}
	out := make([]string, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		start := 0
		if len(prev) > overlap {
			start = len(prev) - overlap
			for start < len(prev) && !utf8.RuneStart(prev[start]) {
				start++
			}
		}
		tail := prev[start:]
		if idx := strings.IndexByte(tail, ' '); idx != -1 {
			tail = tail[idx+1:]
		}
		out[i] = tail + " " + chunks[i]
	}
	return out
}
