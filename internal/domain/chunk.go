package domain

// Chunk is a contiguous span of extracted document text. Neighboring chunks
// overlap so that spans split across a chunk boundary stay retrievable from
// at least one of them.
type Chunk struct {
	Text string
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}
