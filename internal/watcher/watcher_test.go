package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
}

func (r *recorder) wait(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(timeout):
		t.Fatal("timed out waiting for ingest callback")
		return ""
	}
}

func TestWatcherIngestsNewFile(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w := New([]string{dir}, []string{".txt"}, true, rec.record, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	got := rec.wait(t, 3*time.Second)
	if filepath.Clean(got) != filepath.Clean(path) {
		t.Errorf("ingested %q, want %q", got, path)
	}
}

func TestWatcherExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w := New([]string{dir}, []string{".txt"}, true, rec.record, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	got := rec.wait(t, 3*time.Second)
	if filepath.Ext(got) != ".txt" {
		t.Errorf("filtered extension slipped through: %q", got)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w := New([]string{dir}, nil, true, rec.record, WithDebounce(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "burst.txt")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	rec.wait(t, 3*time.Second)
	// Allow a late second fire to surface before counting.
	time.Sleep(400 * time.Millisecond)
	rec.mu.Lock()
	count := len(rec.paths)
	rec.mu.Unlock()
	if count != 1 {
		t.Errorf("burst should collapse to one ingest, got %d", count)
	}
}

func TestAddAndRemoveDirectory(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	rec := newRecorder()
	w := New([]string{dirA}, nil, true, rec.record, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddDirectory(dirB, false); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 2 {
		t.Fatalf("directories: %v", w.Directories())
	}

	if err := os.WriteFile(filepath.Join(dirB, "added.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	rec.wait(t, 3*time.Second)

	if err := w.RemoveDirectory(dirB); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 1 {
		t.Errorf("directories after remove: %v", w.Directories())
	}
}

func TestSyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.txt"), []byte("preexisting"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w := New([]string{dir}, []string{".txt"}, true, rec.record, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExistingFiles()
	got := rec.wait(t, 3*time.Second)
	if filepath.Base(got) != "old.txt" {
		t.Errorf("synced %q", got)
	}
}
