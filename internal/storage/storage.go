// Package storage defines document metadata persistence. Chunk text and
// embeddings live in the vector store; this layer tracks what was ingested.
package storage

import (
	"context"
	"errors"

	"github.com/okibi/kotae/internal/models"
)

// ErrNotFound is returned when a document ID has no record.
var ErrNotFound = errors.New("document not found")

// Storage persists document metadata records.
type Storage interface {
	// SaveDocument inserts or overwrites a document record. Re-ingesting the
	// same ID updates the existing row.
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)

	Close() error
}
