// Package index implements the in-process semantic index: an append-only
// collection of chunks plus their embedding vectors, queryable by cosine
// similarity and persisted to disk as an opaque blob.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// Index holds chunks and their vectors. Safe for concurrent readers with a
// single writer; the ingestion pipeline serializes writes externally as well.
type Index struct {
	mu      sync.RWMutex
	path    string
	chunks  []domain.Chunk
	vectors [][]float32
}

// Open loads the index blob at path, or returns an empty index when the file
// is absent or unreadable. A corrupt blob is never fatal: retrieval starts
// empty and documents are re-ingested on demand.
func Open(path string) *Index {
	ix := &Index{path: path}
	if path == "" {
		return ix
	}
	if snap, err := readSnapshot(path); err == nil {
		ix.chunks = snap.Chunks
		ix.vectors = snap.Vectors
	}
	return ix
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Add appends chunks with their vectors.
func (ix *Index) Add(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = append(ix.chunks, chunks...)
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns up to topK chunks nearest to the query vector by cosine
// similarity, best first. An empty index yields no results.
func (ix *Index) Search(vector []float32, topK int) []domain.Chunk {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if topK <= 0 || len(ix.chunks) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = scored{idx: i, score: cosine(v, vector)}
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]domain.Chunk, 0, topK)
	for _, s := range scores[:topK] {
		results = append(results, ix.chunks[s.idx])
	}
	return results
}

// Save writes the index blob to its configured path. No-op without a path.
func (ix *Index) Save() error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.path == "" {
		return nil
	}
	snap := snapshot{Chunks: ix.chunks, Vectors: ix.vectors}
	if err := writeSnapshot(ix.path, snap); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
