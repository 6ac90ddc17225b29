package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/okibi/kotae/internal/embedding"
	"github.com/okibi/kotae/internal/extract"
	"github.com/okibi/kotae/internal/ingest"
	"github.com/okibi/kotae/internal/query"
	"github.com/okibi/kotae/internal/storage"
	"github.com/okibi/kotae/internal/vector"
)

const dims = 32

type echoGenerator struct {
	lastPrompt string
}

func (g *echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return "generated answer", nil
}

// TestIngestThenAsk runs the full pipeline against real on-disk SQLite and
// the in-memory vector store: write files, ingest them, ask a question.
func TestIngestThenAsk(t *testing.T) {
	dir := t.TempDir()
	st, err := storage.NewSQLiteStorage(filepath.Join(dir, "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	store, err := vector.NewMemoryStore(dims)
	if err != nil {
		t.Fatal(err)
	}
	emb := embedding.NewMockEmbedder(dims)
	ing := ingest.NewIngestor(st, emb, store, extract.NewExtractor(), 300, 60, zap.NewNop())

	files := map[string]string{
		"energy.txt":  "Solar panels convert sunlight into electricity. Wind turbines capture kinetic energy from moving air.",
		"history.txt": "The printing press was invented by Johannes Gutenberg around 1440. It transformed how information spread.",
		"biology.txt": "Photosynthesis lets plants convert light energy into chemical energy stored as glucose.",
	}
	ctx := context.Background()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := ing.IngestFile(ctx, path); err != nil {
			t.Fatalf("ingest %s: %v", name, err)
		}
	}

	docCount, err := st.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if docCount != 3 {
		t.Fatalf("documents: %d", docCount)
	}
	if store.Count() < 3 {
		t.Fatalf("vectors: %d", store.Count())
	}

	gen := &echoGenerator{}
	eng := query.NewEngine(emb, store, gen, 2, zap.NewNop())

	// The mock embedder is deterministic, so asking with text close to one
	// document retrieves that document first.
	ans, err := eng.Answer(ctx, "Solar panels convert sunlight into electricity. Wind turbines capture kinetic energy from moving air.", 0)
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "generated answer" {
		t.Errorf("answer: %q", ans.Text)
	}
	if len(ans.Retrieved) != 2 {
		t.Fatalf("retrieved: %d", len(ans.Retrieved))
	}
	if !strings.HasSuffix(ans.Retrieved[0].Source, "energy.txt") {
		t.Errorf("best source: %q", ans.Retrieved[0].Source)
	}
	if !strings.Contains(gen.lastPrompt, "Solar panels") {
		t.Error("prompt missing retrieved context")
	}
}

// TestPersistenceRoundTrip saves the vector store, reloads it into a fresh
// instance, and confirms retrieval still works.
func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := storage.NewSQLiteStorage(filepath.Join(dir, "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	store, _ := vector.NewMemoryStore(dims)
	emb := embedding.NewMockEmbedder(dims)
	ing := ingest.NewIngestor(st, emb, store, extract.NewExtractor(), 300, 60, zap.NewNop())

	ctx := context.Background()
	if _, err := ing.IngestText(ctx, "Persistent knowledge survives restarts.", "doc-1", "memo.txt"); err != nil {
		t.Fatal(err)
	}

	snapPath := filepath.Join(dir, "vectors.gob")
	if err := store.Save(snapPath); err != nil {
		t.Fatal(err)
	}

	reloaded, _ := vector.NewMemoryStore(dims)
	if err := reloaded.Load(snapPath); err != nil {
		t.Fatal(err)
	}

	qe, err := emb.Embed(ctx, "Persistent knowledge survives restarts.")
	if err != nil {
		t.Fatal(err)
	}
	results, err := reloaded.Query(ctx, qe, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Similarity < 0.999 {
		t.Fatalf("reloaded retrieval: %+v", results)
	}
}
