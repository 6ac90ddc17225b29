package query

import (
	"fmt"
	"strings"

	"github.com/okibi/kotae/internal/vector"
)

const promptTemplate = `Answer the user question based on the following context. If the answer is not in the context, say you don't know.

Context:
%s

Question: %s

Answer:`

// BuildPrompt renders retrieved chunks into a generation prompt. Chunks are
// expected in similarity-descending order; each becomes a Source/Content
// block so the model can cite where an answer came from.
func BuildPrompt(question string, results []vector.Result) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Source: %s\nContent: %s", r.Metadata[vector.MetaSource], r.Text)
	}
	return fmt.Sprintf(promptTemplate, strings.Join(blocks, "\n\n"), question)
}
