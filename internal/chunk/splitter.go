package chunk

import "strings"

// DefaultChunkSize is the default target chunk size in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters shared between
// adjacent chunks so that concepts spanning a split point remain
// retrievable from at least one chunk.
const DefaultOverlap = 200

// DefaultSeparators is the default separator ladder, coarsest to finest.
// The trailing empty string enables hard character splitting when no
// natural boundary fits within the budget.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " ", ""}

// Splitter splits text into overlapping chunks along natural boundaries.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators sets the separator ladder, coarsest first.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// NewSplitter creates a Splitter with the given options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content in every chunk.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split splits text into ordered chunks. Each chunk except the first
// begins with the trailing overlap of its predecessor, and no chunk
// exceeds the configured chunk size. Empty input produces no chunks.
func (s *Splitter) Split(text string) []Chunk {
	if text == "" {
		return nil
	}

	// Cores are packed to chunkSize-overlap so that prepending the
	// overlap never pushes a chunk past chunkSize.
	budget := s.chunkSize - s.overlap
	cores := s.pack(s.fragment(text, s.separators, budget), budget)

	chunks := make([]Chunk, 0, len(cores))
	prev := ""
	for i, core := range cores {
		chunks = append(chunks, Chunk{Ordinal: i, Text: prev + core})
		prev = tail(core, s.overlap)
	}

	return chunks
}

// fragment recursively splits text into pieces no larger than budget,
// preferring the coarsest separator and descending to finer ones only for
// pieces that remain over budget. Separators stay attached to the piece
// they terminate, so concatenating all fragments reproduces the input.
func (s *Splitter) fragment(text string, separators []string, budget int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= budget {
		return []string{text}
	}
	if len(separators) == 0 {
		return hardSplit(text, budget)
	}

	sep := separators[0]
	rest := separators[1:]
	if sep == "" {
		return hardSplit(text, budget)
	}

	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		// Separator absent; fall through to the next finer one.
		return s.fragment(text, rest, budget)
	}

	var fragments []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= budget {
			fragments = append(fragments, part)
			continue
		}
		fragments = append(fragments, s.fragment(part, rest, budget)...)
	}

	return fragments
}

// pack greedily merges adjacent fragments into cores no larger than budget.
func (s *Splitter) pack(fragments []string, budget int) []string {
	var cores []string
	var cur strings.Builder

	for _, frag := range fragments {
		if cur.Len() > 0 && cur.Len()+len(frag) > budget {
			cores = append(cores, cur.String())
			cur.Reset()
		}
		cur.WriteString(frag)
	}
	if cur.Len() > 0 {
		cores = append(cores, cur.String())
	}

	return cores
}

// hardSplit cuts text into fixed-size windows as a last resort.
func hardSplit(text string, budget int) []string {
	pieces := make([]string, 0, len(text)/budget+1)
	for start := 0; start < len(text); start += budget {
		end := start + budget
		if end > len(text) {
			end = len(text)
		}
		pieces = append(pieces, text[start:end])
	}
	return pieces
}

// tail returns the last n bytes of text.
func tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(text) <= n {
		return text
	}
	return text[len(text)-n:]
}
