package vector

import (
	"context"
	"fmt"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
)

// collectionName is the single chromem collection holding all document chunks.
const collectionName = "documents"

// ChromemStore is a persistent vector store backed by chromem-go. chromem
// computes cosine similarity over normalized vectors and persists on write,
// so Save and Load are no-ops.
type ChromemStore struct {
	db   *chromem.DB
	coll *chromem.Collection
}

// NewChromemStore opens or creates a persistent chromem database at path.
func NewChromemStore(path string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	// Embeddings are computed upstream by the embedding client and attached to
	// every document, so the collection's embedding func must never run.
	coll, err := db.GetOrCreateCollection(collectionName, nil, rejectEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", collectionName, err)
	}
	return &ChromemStore{db: db, coll: coll}, nil
}

func rejectEmbeddingFunc(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings must be provided by the embedding client")
}

// Insert indexes items, overwriting entries with the same ID. Any failure
// wraps into *WriteError and the batch must be treated as uninserted.
func (s *ChromemStore) Insert(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(items))
	for i, it := range items {
		docs[i] = chromem.Document{
			ID:        it.ID,
			Metadata:  it.Metadata,
			Embedding: it.Embedding,
			Content:   it.Text,
		}
	}
	if err := s.coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Query returns up to k nearest chunks by cosine similarity, nearest first.
// chromem rejects result counts above the collection size, so k is clamped;
// an empty collection yields an empty result, not an error.
func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	count := s.coll.Count()
	if k <= 0 || count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	hits, err := s.coll.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			Text:       h.Content,
			Metadata:   h.Metadata,
			Similarity: clamp01(float64(h.Similarity)),
		}
	}
	return results, nil
}

// Count returns the number of indexed vectors.
func (s *ChromemStore) Count() int {
	return s.coll.Count()
}

// Save is a no-op: chromem persists on write.
func (s *ChromemStore) Save(path string) error {
	return nil
}

// Load is a no-op: chromem loads from disk at open.
func (s *ChromemStore) Load(path string) error {
	return nil
}

// Close is a no-op for ChromemStore.
func (s *ChromemStore) Close() error {
	return nil
}
