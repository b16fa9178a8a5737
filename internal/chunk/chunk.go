// Package chunk splits normalized document text into overlapping passages
// along natural boundaries for embedding and retrieval.
package chunk

// Chunk is a bounded contiguous span of normalized document text.
// Ordinal is the zero-based position in document order.
type Chunk struct {
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// Len returns the chunk length in bytes.
func (c Chunk) Len() int {
	return len(c.Text)
}
