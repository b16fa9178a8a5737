// Package index provides an in-memory vector index over document chunks
// with cosine-similarity retrieval.
package index

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/finbrief/finbrief/internal/chunk"
)

// Errors returned by index operations.
var (
	// ErrIndexNotFound indicates no persisted index exists at the path.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrUnsupportedVersion indicates the index was persisted with an
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported index version")
)

// CurrentIndexVersion is the persistence format version. Increment on
// breaking changes to the index layout.
const CurrentIndexVersion = 1

// Entry pairs a chunk with its embedding vector.
type Entry struct {
	Chunk  chunk.Chunk
	Vector []float32
}

// Index holds embeddings for all chunks of one document. Entries are kept
// in document order; retrieval reorders by similarity.
type Index struct {
	Version    int
	Model      string
	Dimensions int
	CreatedAt  time.Time
	Entries    []Entry
}

// Result is a chunk returned by a similarity search.
type Result struct {
	Chunk chunk.Chunk
	Score float32
}

// New creates an empty index for the given embedding model.
func New(model string, dimensions int) *Index {
	return &Index{
		Version:    CurrentIndexVersion,
		Model:      model,
		Dimensions: dimensions,
		CreatedAt:  time.Now(),
	}
}

// Add appends a chunk and its embedding to the index.
func (ix *Index) Add(c chunk.Chunk, vector []float32) error {
	if len(vector) != ix.Dimensions {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vector), ix.Dimensions)
	}
	ix.Entries = append(ix.Entries, Entry{Chunk: c, Vector: vector})
	return nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.Entries)
}

// Search returns the k chunks most similar to the query vector, ordered by
// similarity descending with ties broken by lower chunk ordinal. An empty
// index yields an empty result, never an error. Fewer than k results are
// returned only when the index holds fewer than k chunks.
func (ix *Index) Search(query []float32, k int) []Result {
	if len(ix.Entries) == 0 || k <= 0 {
		return nil
	}

	results := make([]Result, 0, len(ix.Entries))
	for _, e := range ix.Entries {
		results = append(results, Result{
			Chunk: e.Chunk,
			Score: CosineSimilarity(query, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Ordinal < results[j].Chunk.Ordinal
	})

	if len(results) > k {
		results = results[:k]
	}

	return results
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched or empty vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// Save persists the index to path using GOB encoding. The write goes to a
// temp file first and is renamed into place for atomicity.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(ix); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding index: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Load reads a persisted index from path.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var ix Index
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&ix); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	if ix.Version != CurrentIndexVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, ix.Version, CurrentIndexVersion)
	}

	return &ix, nil
}
