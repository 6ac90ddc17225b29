package vector

import "fmt"

// StoreType selects the vector store backend.
type StoreType string

const (
	// StoreTypeChromem persists vectors on disk via chromem-go. The default.
	StoreTypeChromem StoreType = "chromem"
	// StoreTypeMemory keeps vectors in memory with optional Save/Load.
	// Good for tests and small corpora.
	StoreTypeMemory StoreType = "memory"
)

// NewStore creates a vector store of the given type. path is the on-disk
// location for persistent backends; dimensions is the expected vector size.
func NewStore(storeType string, path string, dimensions int) (Store, error) {
	switch StoreType(storeType) {
	case StoreTypeChromem, "":
		return NewChromemStore(path)
	case StoreTypeMemory:
		return NewMemoryStore(dimensions)
	default:
		return nil, fmt.Errorf("unknown vector store type: %s (supported: chromem, memory)", storeType)
	}
}
