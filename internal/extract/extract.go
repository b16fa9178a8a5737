// Package extract pulls plain text out of PDF documents.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction indicates the source document could not be read or
// yielded no usable text.
var ErrExtraction = errors.New("could not extract text from document")

// Text extracts all text from the PDF at path, page by page.
func Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer f.Close()

	return readPages(r)
}

// TextReader extracts all text from a PDF supplied as a reader.
func TextReader(r io.ReaderAt, size int64) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return readPages(pdfReader)
}

// readPages concatenates the plain text of every page. Pages that fail to
// decode are skipped; only a document with no readable pages at all is an
// error.
func readPages(r *pdf.Reader) (string, error) {
	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", fmt.Errorf("%w: no readable text", ErrExtraction)
	}

	return builder.String(), nil
}
