package index

import (
	"context"
	"fmt"
	"time"

	"github.com/finbrief/finbrief/internal/chunk"
	"github.com/finbrief/finbrief/internal/llm"
)

const (
	// DefaultBatchSize is the number of chunks embedded per request.
	DefaultBatchSize = 32

	// DefaultBatchDelay is the pause between consecutive batches. Batches
	// run sequentially with this delay as deliberate backpressure against
	// provider rate limits.
	DefaultBatchDelay = 500 * time.Millisecond

	// DefaultBatchAttempts is the maximum attempts per batch before the
	// whole build fails.
	DefaultBatchAttempts = 3

	// batchBackoffBase is the initial delay before re-attempting a failed
	// batch; it doubles on each subsequent attempt.
	batchBackoffBase = time.Second
)

// EmbeddingError indicates that index construction exhausted its retries
// for one batch of chunks. The partial index is discarded.
type EmbeddingError struct {
	From int // ordinal of the first chunk in the failed batch
	To   int // ordinal of the last chunk in the failed batch
	Err  error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding chunks %d-%d: %v", e.From, e.To, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// ProgressFunc receives fractional build progress in [0,1]. Values are
// monotonically non-decreasing and end at 1.0 on success.
type ProgressFunc func(fraction float64)

// Builder constructs a vector index from document chunks.
type Builder struct {
	embedder   llm.Embedder
	model      string
	batchSize  int
	batchDelay time.Duration
	attempts   int
	backoff    time.Duration
	progress   ProgressFunc
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBatchSize sets the number of chunks per embedding request.
func WithBatchSize(size int) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithBatchDelay sets the pause between consecutive batches.
func WithBatchDelay(delay time.Duration) BuilderOption {
	return func(b *Builder) {
		if delay >= 0 {
			b.batchDelay = delay
		}
	}
}

// WithBatchAttempts sets the maximum attempts per batch.
func WithBatchAttempts(attempts int) BuilderOption {
	return func(b *Builder) {
		if attempts > 0 {
			b.attempts = attempts
		}
	}
}

// WithBatchBackoff sets the initial re-attempt delay (for testing).
func WithBatchBackoff(backoff time.Duration) BuilderOption {
	return func(b *Builder) {
		b.backoff = backoff
	}
}

// WithProgress sets the progress sink.
func WithProgress(progress ProgressFunc) BuilderOption {
	return func(b *Builder) {
		b.progress = progress
	}
}

// NewBuilder creates an index builder. The model name is recorded in the
// built index for staleness checks against the querying embedder.
func NewBuilder(embedder llm.Embedder, model string, opts ...BuilderOption) *Builder {
	b := &Builder{
		embedder:   embedder,
		model:      model,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		attempts:   DefaultBatchAttempts,
		backoff:    batchBackoffBase,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build embeds all chunks and assembles the index. Batches are processed
// sequentially; a failed batch is re-attempted with doubling backoff and,
// on exhaustion, the build fails with an EmbeddingError naming the batch
// range. The index is all-or-nothing: no partial index is ever returned.
func (b *Builder) Build(ctx context.Context, chunks []chunk.Chunk) (*Index, error) {
	var ix *Index

	total := len(chunks)
	for start := 0; start < total; start += b.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + b.batchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		if start > 0 && b.batchDelay > 0 {
			if err := wait(ctx, b.batchDelay); err != nil {
				return nil, err
			}
		}

		vectors, err := b.embedBatch(ctx, batch)
		if err != nil {
			return nil, &EmbeddingError{
				From: batch[0].Ordinal,
				To:   batch[len(batch)-1].Ordinal,
				Err:  err,
			}
		}

		if ix == nil {
			if len(vectors) == 0 || len(vectors[0]) == 0 {
				return nil, fmt.Errorf("embedder returned empty vectors")
			}
			ix = New(b.model, len(vectors[0]))
		}

		for i, c := range batch {
			if err := ix.Add(c, vectors[i]); err != nil {
				return nil, fmt.Errorf("indexing chunk %d: %w", c.Ordinal, err)
			}
		}

		if b.progress != nil {
			b.progress(float64(end) / float64(total))
		}
	}

	if ix == nil {
		ix = New(b.model, 0)
	}

	return ix, nil
}

// embedBatch embeds one batch, re-attempting failures with doubling
// backoff up to the attempt limit.
func (b *Builder) embedBatch(ctx context.Context, batch []chunk.Chunk) ([][]float32, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	var lastErr error
	for attempt := 0; attempt < b.attempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, b.backoff<<(attempt-1)); err != nil {
				return nil, err
			}
		}

		vectors, err := b.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			if len(vectors) != len(texts) {
				return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
			}
			return vectors, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("after %d attempts: %w", b.attempts, lastErr)
}

// wait sleeps for the given duration or until the context is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
