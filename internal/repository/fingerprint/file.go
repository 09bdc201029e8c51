// Package fingerprint persists the set of fingerprints of ingested documents.
package fingerprint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// FileStore keeps fingerprints in memory and mirrors them to a JSON file:
// a flat, sorted array of hex strings. The file is loaded once at
// construction; a missing or corrupt file yields an empty set. Writes are
// best-effort: a flush failure is logged and must never abort ingestion.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	seen map[domain.Fingerprint]struct{}
}

// NewFileStore loads (or initializes) a file-backed fingerprint store.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	s := &FileStore{
		path:   path,
		logger: logger,
		seen:   make(map[domain.Fingerprint]struct{}),
	}
	s.load()
	return s
}

// Contains reports whether the fingerprint was ingested before.
func (s *FileStore) Contains(_ context.Context, fp domain.Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[fp]
	return ok
}

// Add records a fingerprint and flushes the set. Idempotent.
func (s *FileStore) Add(_ context.Context, fp domain.Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[fp]; ok {
		return
	}
	s.seen[fp] = struct{}{}
	s.flush()
}

// Len returns the number of known fingerprints.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *FileStore) load() {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("Corrupt fingerprint cache, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	for _, h := range list {
		s.seen[domain.Fingerprint(h)] = struct{}{}
	}
}

// flush writes the sorted fingerprint list. Callers hold s.mu.
func (s *FileStore) flush() {
	list := make([]string, 0, len(s.seen))
	for fp := range s.seen {
		list = append(list, fp.String())
	}
	sort.Strings(list)

	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("Failed to encode fingerprint cache", zap.Error(err))
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Warn("Failed to create fingerprint cache dir",
				zap.String("dir", dir), zap.Error(err))
			return
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("Failed to write fingerprint cache",
			zap.String("path", s.path), zap.Error(err))
	}
}
