// Package models defines core data structures for documents, chunks, queries, and answers.
package models

import "time"

// Document represents an ingested document's metadata. The document text itself
// is not stored here; chunk text lives in the vector store.
type Document struct {
	ID          string                 `json:"id" db:"id"`
	Filename    string                 `json:"filename" db:"filename"`
	ContentType string                 `json:"content_type" db:"content_type"`
	FileSize    int64                  `json:"file_size" db:"file_size"`
	ChunkCount  int                    `json:"chunk_count" db:"chunk_count"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// Chunk is a bounded span of a document's normalized text, the unit of
// embedding and retrieval. Chunks are produced only by the chunker; Index
// values are contiguous from 0 within a document and match the vector IDs
// stored under "<document_id>_<index>".
type Chunk struct {
	Text       string `json:"text"`
	Index      int    `json:"index"`
	DocumentID string `json:"document_id"`
	Section    string `json:"section"`
}
