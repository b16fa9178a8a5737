package index

import (
	"context"
	"fmt"

	"github.com/finbrief/finbrief/internal/chunk"
	"github.com/finbrief/finbrief/internal/llm"
)

// DefaultTopK is the default number of chunks returned per query.
const DefaultTopK = 4

// Retriever answers free-text queries against a built index by embedding
// the query and ranking chunks by cosine similarity.
type Retriever struct {
	embedder llm.Embedder
	topK     int
}

// NewRetriever creates a retriever. k <= 0 selects DefaultTopK.
func NewRetriever(embedder llm.Embedder, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{embedder: embedder, topK: k}
}

// Retrieve returns the top-K chunks most relevant to the query. Even a
// query unrelated to the document yields the best-available chunks; the
// result is empty only when the index itself is empty.
func (r *Retriever) Retrieve(ctx context.Context, ix *Index, query string) ([]chunk.Chunk, error) {
	if ix.Len() == 0 {
		return nil, nil
	}

	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding query: got %d vectors, want 1", len(vectors))
	}

	results := ix.Search(vectors[0], r.topK)
	chunks := make([]chunk.Chunk, len(results))
	for i, res := range results {
		chunks[i] = res.Chunk
	}

	return chunks, nil
}
