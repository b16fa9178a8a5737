package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/finbrief/finbrief/internal/extract"
	"github.com/finbrief/finbrief/internal/index"
	"github.com/finbrief/finbrief/internal/llm"
	"github.com/finbrief/finbrief/internal/pipeline"
)

// ErrorResponse is the JSON shape for command failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps a pipeline failure to its exit code.
func exitCodeFor(err error) int {
	var embErr *index.EmbeddingError
	switch {
	case pipeline.IsValidation(err):
		return ExitDataError
	case errors.Is(err, extract.ErrExtraction):
		return ExitDataError
	case errors.Is(err, pipeline.ErrAnswerTimeout) || llm.IsTimeout(err):
		return ExitTimeout
	case errors.As(err, &embErr), llm.IsRateLimited(err), llm.IsAuthError(err):
		return ExitAPIError
	default:
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			return ExitAPIError
		}
		return ExitError
	}
}

// progressMeter returns a progress sink that renders a percentage on
// stderr in human mode, and a nil sink otherwise.
func progressMeter(label string) index.ProgressFunc {
	if !humanOutput {
		return nil
	}
	return func(fraction float64) {
		fmt.Fprintf(os.Stderr, "\r%s: %3.0f%%", label, fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(os.Stderr)
		}
	}
}
