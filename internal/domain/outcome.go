package domain

// Outcome reports what ingestion did with a document.
type Outcome int

const (
	// OutcomeSkipped means the fingerprint was already cached; no work done.
	OutcomeSkipped Outcome = iota
	// OutcomeIndexed means the document's chunks were embedded and inserted.
	OutcomeIndexed
	// OutcomeFailed means ingestion aborted; the fingerprint was not cached,
	// so a retry on the same bytes re-attempts the full pipeline.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeIndexed:
		return "indexed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
