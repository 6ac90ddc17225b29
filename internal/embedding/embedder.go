// Package embedding provides text embedding via an OpenAI-compatible provider,
// with an LRU cache and a deterministic mock for tests.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces vector embeddings for text. Implementations return
// L2-normalized vectors so inner product equals cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Close() error
}

// ProviderError wraps a failure of the remote embedding provider. It aborts
// the enclosing pipeline run; no retries happen at this layer.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
