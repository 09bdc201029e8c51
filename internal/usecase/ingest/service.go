// Package ingest implements deduplicated document ingestion: a document is
// chunked, embedded and indexed exactly once per content fingerprint.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
	"github.com/askdoc-io/askdoc/internal/metrics"
)

// Service coordinates extraction, chunking, embedding and indexing.
type Service struct {
	fingerprints FingerprintStore
	index        Index
	chunker      Chunker
	embedder     domain.Embedder
	extract      ExtractFunc
	logger       *zap.Logger

	// serializes concurrent ingestions of the same or different documents;
	// the index and fingerprint store must advance together.
	mu sync.Mutex
}

// NewService creates an ingestion service.
func NewService(
	fingerprints FingerprintStore,
	index Index,
	chunker Chunker,
	embedder domain.Embedder,
	extract ExtractFunc,
	logger *zap.Logger,
) *Service {
	return &Service{
		fingerprints: fingerprints,
		index:        index,
		chunker:      chunker,
		embedder:     embedder,
		extract:      extract,
		logger:       logger,
	}
}

// IngestIfNew indexes the document unless its fingerprint is already known.
// The fingerprint is recorded only after the index has been updated, so a
// failed ingestion is retried on the next submission of the same bytes.
func (s *Service) IngestIfNew(ctx context.Context, raw []byte) (domain.Outcome, error) {
	fp := domain.NewFingerprint(raw)

	if s.fingerprints.Contains(ctx, fp) {
		metrics.IngestTotal.WithLabelValues(domain.OutcomeSkipped.String()).Inc()
		return domain.OutcomeSkipped, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have ingested the same document while we waited
	if s.fingerprints.Contains(ctx, fp) {
		metrics.IngestTotal.WithLabelValues(domain.OutcomeSkipped.String()).Inc()
		return domain.OutcomeSkipped, nil
	}

	outcome, err := s.ingest(ctx, fp, raw)
	metrics.IngestTotal.WithLabelValues(outcome.String()).Inc()
	return outcome, err
}

func (s *Service) ingest(ctx context.Context, fp domain.Fingerprint, raw []byte) (domain.Outcome, error) {
	text, err := s.extract(raw)
	if err != nil {
		s.logger.Warn("Failed to extract document text",
			zap.String("fingerprint", fp.String()), zap.Error(err))
		return domain.OutcomeFailed, fmt.Errorf("extract document: %w", err)
	}

	chunks := s.chunker.Split(text)
	if len(chunks) > 0 {
		vectors := make([][]float32, 0, len(chunks))
		for _, chunk := range chunks {
			result, err := s.embedder.Embed(ctx, chunk.Text)
			if err != nil {
				return domain.OutcomeFailed, fmt.Errorf("embed chunk: %w", err)
			}
			vectors = append(vectors, result.Embedding)
		}

		if err := s.index.Add(chunks, vectors); err != nil {
			return domain.OutcomeFailed, fmt.Errorf("index chunks: %w", err)
		}

		if err := s.index.Save(); err != nil {
			// the in-memory index is already updated; persistence catches up
			// on the next successful save
			s.logger.Warn("Failed to persist index",
				zap.String("fingerprint", fp.String()), zap.Error(err))
		}
	}

	s.fingerprints.Add(ctx, fp)

	s.logger.Info("Document ingested",
		zap.String("fingerprint", fp.String()),
		zap.Int("chunks", len(chunks)))

	return domain.OutcomeIndexed, nil
}
