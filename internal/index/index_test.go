package index

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/finbrief/finbrief/internal/chunk"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"identical direction", []float32{1, 0}, []float32{2, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite direction", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty vectors", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.expected)) > 1e-6 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.expected)
			}
		})
	}
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()

	ix := New("test-model", 2)
	vectors := [][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
		{0.5, 0.5},
	}
	for i, v := range vectors {
		c := chunk.Chunk{Ordinal: i, Text: string(rune('a' + i))}
		if err := ix.Add(c, v); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return ix
}

func TestIndex_Add_DimensionMismatch(t *testing.T) {
	ix := New("test-model", 3)
	err := ix.Add(chunk.Chunk{Ordinal: 0, Text: "a"}, []float32{1, 0})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestIndex_Search(t *testing.T) {
	ix := buildTestIndex(t)

	results := ix.Search([]float32{1, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Ordinal != 0 {
		t.Errorf("best match ordinal = %d, want 0", results[0].Chunk.Ordinal)
	}
	if results[1].Chunk.Ordinal != 1 {
		t.Errorf("second match ordinal = %d, want 1", results[1].Chunk.Ordinal)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted by score: %f < %f", results[0].Score, results[1].Score)
	}
}

func TestIndex_Search_TieBreaksOnOrdinal(t *testing.T) {
	ix := New("test-model", 2)
	// Two chunks with identical vectors score identically.
	ix.Add(chunk.Chunk{Ordinal: 5, Text: "later"}, []float32{1, 0})
	ix.Add(chunk.Chunk{Ordinal: 2, Text: "earlier"}, []float32{1, 0})

	results := ix.Search([]float32{1, 0}, 2)
	if results[0].Chunk.Ordinal != 2 {
		t.Errorf("tie should break to lower ordinal, got %d first", results[0].Chunk.Ordinal)
	}
}

func TestIndex_Search_Deterministic(t *testing.T) {
	ix := buildTestIndex(t)
	query := []float32{0.7, 0.3}

	first := ix.Search(query, 3)
	for range 5 {
		again := ix.Search(query, 3)
		for i := range first {
			if again[i].Chunk.Ordinal != first[i].Chunk.Ordinal {
				t.Fatalf("search not deterministic: run differs at position %d", i)
			}
		}
	}
}

func TestIndex_Search_EdgeCases(t *testing.T) {
	ix := buildTestIndex(t)

	if got := ix.Search([]float32{1, 0}, 0); got != nil {
		t.Errorf("k=0 should return nil, got %v", got)
	}
	if got := ix.Search([]float32{1, 0}, 100); len(got) != ix.Len() {
		t.Errorf("k beyond index size should return all %d entries, got %d", ix.Len(), len(got))
	}

	empty := New("test-model", 2)
	if got := empty.Search([]float32{1, 0}, 4); got != nil {
		t.Errorf("empty index should return nil, got %v", got)
	}
}

func TestIndex_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.idx")

	ix := buildTestIndex(t)
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Model != ix.Model {
		t.Errorf("Model = %q, want %q", loaded.Model, ix.Model)
	}
	if loaded.Dimensions != ix.Dimensions {
		t.Errorf("Dimensions = %d, want %d", loaded.Dimensions, ix.Dimensions)
	}
	if loaded.Len() != ix.Len() {
		t.Fatalf("Len = %d, want %d", loaded.Len(), ix.Len())
	}
	for i, e := range loaded.Entries {
		if e.Chunk != ix.Entries[i].Chunk {
			t.Errorf("entry %d chunk = %+v, want %+v", i, e.Chunk, ix.Entries[i].Chunk)
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.idx"))
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("error = %v, want ErrIndexNotFound", err)
	}
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.idx")

	ix := buildTestIndex(t)
	ix.Version = 99
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("error = %v, want ErrUnsupportedVersion", err)
	}
}
