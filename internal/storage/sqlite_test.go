package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okibi/kotae/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetDocument(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{
		ID:          "doc-1",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		FileSize:    2048,
		ChunkCount:  5,
		Metadata:    map[string]interface{}{"source": "/data/report.pdf"},
	}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}

	got, err := s.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Filename != "report.pdf" || got.ChunkCount != 5 {
		t.Errorf("wrong document: %+v", got)
	}
	if got.Metadata["source"] != "/data/report.pdf" {
		t.Errorf("metadata lost: %+v", got.Metadata)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetDocument(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveDocumentOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{ID: "doc-1", Filename: "a.txt", ChunkCount: 2}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.ChunkCount = 7
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("re-save must not error: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ChunkCount != 7 {
		t.Errorf("overwrite not applied: chunk_count=%d", got.ChunkCount)
	}

	count, err := s.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("re-save must not duplicate: count=%d", count)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.SaveDocument(ctx, &models.Document{ID: "doc-1", Filename: "a.txt"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetDocument(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("document should be gone, got %v", err)
	}
	// Deleting a missing ID is not an error.
	if err := s.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestListDocuments(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveDocument(ctx, &models.Document{ID: id, Filename: id + ".txt"}); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := s.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	page, err := s.ListDocuments(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 {
		t.Errorf("pagination: expected 1 document, got %d", len(page))
	}
}
