// Package ingest turns raw documents into indexed, searchable chunks:
// extract text, chunk it, embed every chunk, then write the batch to the
// vector store. The document metadata record is written only after the
// vector batch lands, so a failed ingestion leaves no partial document.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/okibi/kotae/internal/chunker"
	"github.com/okibi/kotae/internal/embedding"
	"github.com/okibi/kotae/internal/extract"
	"github.com/okibi/kotae/internal/fileid"
	"github.com/okibi/kotae/internal/models"
	"github.com/okibi/kotae/internal/storage"
	"github.com/okibi/kotae/internal/vector"
)

// Ingestor runs the ingestion pipeline.
type Ingestor struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	store        vector.Store
	extractor    *extract.Extractor
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// NewIngestor wires the pipeline. Zero chunkSize/chunkOverlap fall back to
// the chunker defaults.
func NewIngestor(st storage.Storage, emb embedding.Embedder, store vector.Store, ext *extract.Extractor, chunkSize, chunkOverlap int, logger *zap.Logger) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultTargetSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = chunker.DefaultOverlap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		storage:      st,
		embedder:     emb,
		store:        store,
		extractor:    ext,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// IngestText chunks and indexes already-extracted text under documentID.
// source is recorded in chunk metadata for citation. Empty or whitespace-only
// text yields zero chunks and no error. Returns the number of chunks indexed.
func (g *Ingestor) IngestText(ctx context.Context, text, documentID, source string) (int, error) {
	chunks := chunker.ChunkDocument(documentID, text, g.chunkSize, g.chunkOverlap)
	if len(chunks) == 0 {
		g.logger.Debug("no chunks produced", zap.String("document_id", documentID))
		return 0, nil
	}

	items := make([]vector.Item, len(chunks))
	for i, c := range chunks {
		emb, err := g.embedder.Embed(ctx, c.Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", c.Index, documentID, err)
		}
		items[i] = vector.Item{
			ID:        fmt.Sprintf("%s_%d", documentID, c.Index),
			Embedding: emb,
			Text:      c.Text,
			Metadata: map[string]string{
				vector.MetaDocumentID:  documentID,
				vector.MetaChunkIndex:  strconv.Itoa(c.Index),
				vector.MetaSource:      source,
				vector.MetaSection:     c.Section,
				vector.MetaChunkLength: strconv.Itoa(len(c.Text)),
			},
		}
	}

	if err := g.store.Insert(ctx, items); err != nil {
		return 0, err
	}

	g.logger.Info("document indexed",
		zap.String("document_id", documentID),
		zap.String("source", source),
		zap.Int("chunks", len(items)))
	return len(items), nil
}

// IngestBytes extracts text from an uploaded file body, indexes it under a
// fresh document ID, and records the document. contentType may be empty, in
// which case the filename extension decides the format.
func (g *Ingestor) IngestBytes(ctx context.Context, content []byte, filename, contentType string) (*models.Document, error) {
	text, err := g.extractor.Extract(content, filename, contentType)
	if err != nil {
		return nil, err
	}

	docID := uuid.New().String()
	count, err := g.IngestText(ctx, text, docID, filename)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:          docID,
		Filename:    filename,
		ContentType: contentType,
		FileSize:    int64(len(content)),
		ChunkCount:  count,
	}
	if err := g.storage.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document record: %w", err)
	}
	return doc, nil
}

// IngestFile indexes a file from disk under a path-derived document ID, so
// re-ingesting the same path overwrites its chunks. Unchanged files (same
// size and mtime as the stored record) are skipped; the returned bool
// reports whether the file was actually ingested.
func (g *Ingestor) IngestFile(ctx context.Context, path string) (*models.Document, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}

	docID := fileid.DocID(path)
	mtime := info.ModTime().UTC().Format(time.RFC3339Nano)
	size := strconv.FormatInt(info.Size(), 10)

	if existing, err := g.storage.GetDocument(ctx, docID); err == nil {
		if existing.Metadata["mtime"] == mtime && existing.Metadata["size"] == size {
			g.logger.Debug("file unchanged, skipping", zap.String("path", path))
			return existing, false, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	text, err := g.extractor.Extract(content, filename, "")
	if err != nil {
		return nil, false, err
	}

	count, err := g.IngestText(ctx, text, docID, path)
	if err != nil {
		return nil, false, err
	}

	doc := &models.Document{
		ID:         docID,
		Filename:   filename,
		FileSize:   info.Size(),
		ChunkCount: count,
		Metadata: map[string]interface{}{
			"source": path,
			"mtime":  mtime,
			"size":   size,
		},
	}
	if err := g.storage.SaveDocument(ctx, doc); err != nil {
		return nil, false, fmt.Errorf("save document record: %w", err)
	}
	return doc, true, nil
}
