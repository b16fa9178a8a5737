package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finbrief/finbrief/internal/llm"
)

func TestAnswer(t *testing.T) {
	var captured llm.CompletionRequest
	completer := funcCompleter{fn: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		captured = req
		return "  Revenue grew 20% year over year.  \n", nil
	}}

	a := NewAnswerer(fixedEmbedder{}, completer)

	answer, err := a.Answer(context.Background(), testIndex(t), "Acme", "How did revenue develop?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer != "Revenue grew 20% year over year." {
		t.Errorf("answer not trimmed: %q", answer)
	}
	if !strings.Contains(captured.User, "Question: How did revenue develop?") {
		t.Errorf("prompt missing question: %q", captured.User)
	}
	if !strings.Contains(captured.User, "Company: Acme") {
		t.Errorf("prompt missing company: %q", captured.User)
	}
	if !strings.Contains(captured.User, "Revenue grew 20%") {
		t.Errorf("prompt missing retrieved passages: %q", captured.User)
	}
}

func TestAnswer_CompletionError(t *testing.T) {
	boom := errors.New("model unavailable")
	completer := funcCompleter{fn: func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", boom
	}}

	a := NewAnswerer(fixedEmbedder{}, completer)

	_, err := a.Answer(context.Background(), testIndex(t), "Acme", "Anything?")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want completion failure", err)
	}
}
