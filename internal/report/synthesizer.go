package report

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/finbrief/finbrief/internal/chunk"
	"github.com/finbrief/finbrief/internal/index"
	"github.com/finbrief/finbrief/internal/llm"
)

const (
	// sectionMaxTokens bounds each generated section.
	sectionMaxTokens = 500

	// sectionTemperature keeps section output close to the source text.
	sectionTemperature = 0.3

	// chunkJoiner separates retrieved passages inside a prompt.
	chunkJoiner = "\n\n---\n\n"
)

// Synthesizer generates the four report sections from a built index. The
// sections are independent and run concurrently; the first failure cancels
// the remaining generations and aborts the whole report. No partial report
// is ever returned.
type Synthesizer struct {
	retriever *index.Retriever
	completer llm.Completer
}

// NewSynthesizer creates a synthesizer retrieving topK passages per
// section query.
func NewSynthesizer(embedder llm.Embedder, completer llm.Completer, topK int) *Synthesizer {
	return &Synthesizer{
		retriever: index.NewRetriever(embedder, topK),
		completer: completer,
	}
}

// Generate produces all four report sections for the company. The call
// joins all section goroutines before returning, so no work leaks past it.
func (s *Synthesizer) Generate(ctx context.Context, ix *index.Index, company string) (*Sections, error) {
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sections := &Sections{}
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, kind := range AllSections() {
		wg.Add(1)
		go func(kind SectionKind) {
			defer wg.Done()

			text, err := s.generateSection(genCtx, ix, company, kind)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("generating %s section: %w", kind, err)
					cancel()
				}
				return
			}
			sections.set(kind, text)
		}(kind)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return sections, nil
}

// generateSection retrieves passages for one section and prompts the
// completion model.
func (s *Synthesizer) generateSection(ctx context.Context, ix *index.Index, company string, kind SectionKind) (string, error) {
	chunks, err := s.retriever.Retrieve(ctx, ix, kind.retrievalQuery(company))
	if err != nil {
		return "", fmt.Errorf("retrieving passages: %w", err)
	}

	text, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      kind.systemPrompt(),
		User:        kind.userPrompt(company, joinChunks(chunks)),
		MaxTokens:   sectionMaxTokens,
		Temperature: sectionTemperature,
	})
	if err != nil {
		return "", err
	}

	return ReflowBullets(text), nil
}

// joinChunks concatenates retrieved chunk texts for prompt context.
func joinChunks(chunks []chunk.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, chunkJoiner)
}
