package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/finbrief/finbrief/internal/index"
	"github.com/finbrief/finbrief/internal/llm"
)

const (
	// answerTopK is the number of passages retrieved per question.
	answerTopK = 3

	// answerMaxTokens bounds ad-hoc answers.
	answerMaxTokens = 250

	// answerTemperature keeps answers close to the source text.
	answerTemperature = 0.2
)

// answerSystemPrompt instructs the model for free-form Q&A.
const answerSystemPrompt = "You are a financial analyst assistant. Answer the question in 2-3 plain " +
	"sentences, grounded strictly in the document excerpts provided. If the " +
	"excerpts do not contain the answer, say so briefly. No bullet points, " +
	"no headings."

// Answerer answers free-form questions against an already-built index,
// reusing the same retrieve-then-prompt pattern as section synthesis.
type Answerer struct {
	retriever *index.Retriever
	completer llm.Completer
}

// NewAnswerer creates a question answerer.
func NewAnswerer(embedder llm.Embedder, completer llm.Completer) *Answerer {
	return &Answerer{
		retriever: index.NewRetriever(embedder, answerTopK),
		completer: completer,
	}
}

// Answer retrieves the passages most relevant to the question and prompts
// for a short grounded answer. An off-topic question still receives the
// best-available passages and a generated answer rather than an error.
func (a *Answerer) Answer(ctx context.Context, ix *index.Index, company, question string) (string, error) {
	chunks, err := a.retriever.Retrieve(ctx, ix, question)
	if err != nil {
		return "", fmt.Errorf("retrieving passages: %w", err)
	}

	user := fmt.Sprintf(`Company: %s

Document excerpts:
---
%s
---

Question: %s`, company, joinChunks(chunks), question)

	answer, err := a.completer.Complete(ctx, llm.CompletionRequest{
		System:      answerSystemPrompt,
		User:        user,
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}
