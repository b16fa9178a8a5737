package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestText_MissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
}

func TestText_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("just plain text"), 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	_, err := Text(path)
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
}
