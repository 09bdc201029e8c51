package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/askdoc-io/askdoc/internal/domain"
)

func chunksOf(texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		out[i] = domain.Chunk{Text: t}
	}
	return out
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix := Open("")
	for _, k := range []int{0, 1, 4, 100} {
		if got := ix.Search([]float32{1, 0}, k); len(got) != 0 {
			t.Errorf("k=%d: expected no results on empty index, got %d", k, len(got))
		}
	}
}

func TestAdd_LengthMismatch(t *testing.T) {
	ix := Open("")
	err := ix.Add(chunksOf("a", "b"), [][]float32{{1}})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestSearch_OrderedByCosine(t *testing.T) {
	ix := Open("")
	err := ix.Add(
		chunksOf("east", "north", "northeast"),
		[][]float32{{1, 0}, {0, 1}, {1, 1}},
	)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got := ix.Search([]float32{1, 0.1}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Text != "east" {
		t.Errorf("expected 'east' first, got %q", got[0].Text)
	}
	if got[1].Text != "northeast" {
		t.Errorf("expected 'northeast' second, got %q", got[1].Text)
	}
}

func TestSearch_TopKCapped(t *testing.T) {
	ix := Open("")
	_ = ix.Add(chunksOf("a", "b"), [][]float32{{1, 0}, {0, 1}})
	if got := ix.Search([]float32{1, 0}, 10); len(got) != 2 {
		t.Errorf("expected all 2 results, got %d", len(got))
	}
}

func TestSaveAndOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "index.bin")

	ix := Open(path)
	_ = ix.Add(chunksOf("alpha", "beta"), [][]float32{{0.5, 0.5}, {0.9, 0.1}})
	if err := ix.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened := Open(path)
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 chunks after reload, got %d", reopened.Len())
	}
	got := reopened.Search([]float32{1, 0}, 1)
	if len(got) != 1 || got[0].Text != "beta" {
		t.Errorf("unexpected search result after reload: %+v", got)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	ix := Open(filepath.Join(t.TempDir(), "nope.bin"))
	if ix.Len() != 0 {
		t.Errorf("expected empty index, got %d chunks", ix.Len())
	}
}

func TestOpen_CorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	ix := Open(path)
	if ix.Len() != 0 {
		t.Errorf("expected empty index for corrupt blob, got %d chunks", ix.Len())
	}
}

func TestSave_NoPath(t *testing.T) {
	ix := Open("")
	_ = ix.Add(chunksOf("a"), [][]float32{{1}})
	if err := ix.Save(); err != nil {
		t.Errorf("save without path should be a no-op, got %v", err)
	}
}
