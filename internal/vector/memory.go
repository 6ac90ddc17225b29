package vector

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// MemoryStore is an in-memory vector store using brute-force cosine search
// over normalized vectors. Suitable for tests and small corpora; optionally
// persisted via Save/Load.
type MemoryStore struct {
	dimensions int
	items      map[string]Item
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory store expecting vectors of the given
// dimension.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{
		dimensions: dimensions,
		items:      make(map[string]Item),
	}, nil
}

// Insert indexes items, overwriting any existing entries with the same ID.
func (m *MemoryStore) Insert(ctx context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			return &WriteError{Err: fmt.Errorf("item has empty ID")}
		}
		if len(it.Embedding) != m.dimensions {
			return &WriteError{Err: fmt.Errorf("vector dimension mismatch for %s: got %d, expected %d", it.ID, len(it.Embedding), m.dimensions)}
		}
	}
	for _, it := range items {
		vec := make([]float32, m.dimensions)
		copy(vec, it.Embedding)
		it.Embedding = vec
		m.items[it.ID] = it
	}
	return nil
}

// Query returns up to k items by cosine similarity, nearest first. Ties break
// by ID so results are deterministic.
func (m *MemoryStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	if len(embedding) != m.dimensions {
		return nil, &QueryError{Err: fmt.Errorf("query dimension mismatch: got %d, expected %d", len(embedding), m.dimensions)}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.items) == 0 {
		return nil, nil
	}
	type scored struct {
		id  string
		res Result
	}
	scores := make([]scored, 0, len(m.items))
	for id, it := range m.items {
		scores = append(scores, scored{id: id, res: Result{
			Text:       it.Text,
			Metadata:   it.Metadata,
			Similarity: CosineSimilarity(embedding, it.Embedding),
		}})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].res.Similarity != scores[j].res.Similarity {
			return scores[i].res.Similarity > scores[j].res.Similarity
		}
		return scores[i].id < scores[j].id
	})
	if k > len(scores) {
		k = len(scores)
	}
	results := make([]Result, k)
	for i := 0; i < k; i++ {
		results[i] = scores[i].res
	}
	return results, nil
}

// Count returns the number of indexed vectors.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

type memorySnapshot struct {
	Dimensions int
	Items      map[string]Item
}

// Save persists the store to path. The parent directory is created if needed;
// an empty path is a no-op.
func (m *MemoryStore) Save(path string) error {
	if path == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(memorySnapshot{Dimensions: m.dimensions, Items: m.items}); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return nil
}

// Load replaces the in-memory contents from path. A missing file is not an
// error and leaves the store unchanged; a dimension mismatch is.
func (m *MemoryStore) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()
	var snap memorySnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode store: %w", err)
	}
	if snap.Dimensions != m.dimensions {
		return fmt.Errorf("dimension mismatch: file has %d, store expects %d", snap.Dimensions, m.dimensions)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = snap.Items
	if m.items == nil {
		m.items = make(map[string]Item)
	}
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
