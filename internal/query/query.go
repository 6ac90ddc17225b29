// Package query answers questions over the indexed corpus: embed the
// question, retrieve the nearest chunks, and generate an answer grounded in
// them.
package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/okibi/kotae/internal/embedding"
	"github.com/okibi/kotae/internal/llm"
	"github.com/okibi/kotae/internal/models"
	"github.com/okibi/kotae/internal/vector"
	"github.com/okibi/kotae/pkg/utils"
)

// NoContextAnswer is returned when retrieval finds nothing. The generator is
// not called in that case.
const NoContextAnswer = "I don't have enough information to answer this question. Please upload relevant documents first."

// Engine runs the retrieval and generation pipeline.
type Engine struct {
	embedder  embedding.Embedder
	store     vector.Store
	generator llm.Generator
	topK      int
	logger    *zap.Logger
}

// NewEngine wires the query pipeline. topK is the default result count when
// a request does not specify one.
func NewEngine(emb embedding.Embedder, store vector.Store, gen llm.Generator, topK int, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = models.DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		embedder:  emb,
		store:     store,
		generator: gen,
		topK:      topK,
		logger:    logger,
	}
}

// Answer embeds the question, retrieves up to k chunks, and generates an
// answer from them. k <= 0 uses the engine default. An empty index or a
// question with no matches yields NoContextAnswer without invoking the
// generator.
func (e *Engine) Answer(ctx context.Context, question string, k int) (*models.Answer, error) {
	if k <= 0 {
		k = e.topK
	}

	qEmbedding, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := e.store.Query(ctx, qEmbedding, k)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		e.logger.Info("no context retrieved", zap.String("question", utils.Truncate(question, 120)))
		return &models.Answer{Text: NoContextAnswer, Retrieved: []models.RetrievalResult{}}, nil
	}

	prompt := BuildPrompt(question, results)
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	retrieved := make([]models.RetrievalResult, len(results))
	for i, r := range results {
		retrieved[i] = models.RetrievalResult{
			Text:       r.Text,
			Source:     r.Metadata[vector.MetaSource],
			Similarity: r.Similarity,
		}
	}

	e.logger.Info("question answered",
		zap.String("question", utils.Truncate(question, 120)),
		zap.Int("chunks_used", len(results)))
	return &models.Answer{Text: text, Retrieved: retrieved}, nil
}
