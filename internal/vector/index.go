// Package vector provides the vector store contract used by the ingestion and
// query pipelines, a persistent chromem-go backend, and an in-memory backend.
package vector

import (
	"context"
	"fmt"
)

// Metadata keys stored with every indexed vector.
const (
	MetaDocumentID  = "document_id"
	MetaChunkIndex  = "chunk_index"
	MetaSource      = "source"
	MetaSection     = "section"
	MetaChunkLength = "chunk_length"
)

// Item is one vector to index: ID is "<document_id>_<chunk_index>", Text is
// the chunk text, Metadata the keys above. Items are created at ingestion and
// never mutated.
type Item struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]string
}

// Result is one query hit. Similarity is the normalized contract value in
// [0,1]: 1.0 means identical, values near 0 dissimilar, regardless of the
// store's internal metric (see similarity.go).
type Result struct {
	Text       string
	Metadata   map[string]string
	Similarity float64
}

// Store persists vectors and answers nearest-neighbor queries. Implementations
// do not lock across requests beyond their own internal consistency; the store
// is treated as externally synchronized.
type Store interface {
	// Insert indexes items. Idempotent per ID: re-insertion overwrites. On
	// failure the whole batch must be treated as uninserted; there is no
	// partial-success contract.
	Insert(ctx context.Context, items []Item) error
	// Query returns up to k nearest items, nearest first. Zero hits is an
	// empty result, not an error.
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)
	// Count returns the number of indexed vectors.
	Count() int
	// Save persists the store to path where the backend does not already
	// persist on write; Load restores it. Both are no-ops otherwise.
	Save(path string) error
	Load(path string) error
	Close() error
}

// WriteError wraps a failed batch insert. Callers treat the whole batch as
// uninserted.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("vector store write: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// QueryError wraps a failed nearest-neighbor query.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("vector store query: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
