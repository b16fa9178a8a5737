// Package pipeline orchestrates report generation end to end: extraction,
// normalization, chunking, index construction, section synthesis, and
// question answering, with fingerprint-keyed caching around the expensive
// stages.
package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/chunk"
	"github.com/finbrief/finbrief/internal/extract"
	"github.com/finbrief/finbrief/internal/index"
	"github.com/finbrief/finbrief/internal/llm"
	"github.com/finbrief/finbrief/internal/normalize"
	"github.com/finbrief/finbrief/internal/report"
)

const (
	// DefaultAnswerTimeout is the wall-clock ceiling on one Q&A
	// completion, slightly tighter than the general request timeout so a
	// slow answer fails with guidance instead of a raw deadline error.
	DefaultAnswerTimeout = 25 * time.Second

	// Cache key prefixes keep report and index entries distinct for the
	// same source fingerprint.
	reportKeyPrefix = "report:"
	indexKeyPrefix  = "index:"
)

// Source describes an uploaded document by path and content-identifying
// metadata. The metadata feeds the cache fingerprint.
type Source struct {
	Name    string
	Size    int64
	ModTime time.Time
	Path    string
}

// SourceFromFile builds a Source from a file on disk.
func SourceFromFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("reading document metadata: %w", err)
	}
	return Source{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    path,
	}, nil
}

// Pipeline runs the full retrieval-augmented generation flow. Construct
// one per process and share it across requests.
type Pipeline struct {
	embedder       llm.Embedder
	completer      llm.Completer
	embeddingModel string
	splitter       *chunk.Splitter
	cache          *cache.Cache
	synthesizer    *report.Synthesizer
	answerer       *report.Answerer
	builderOpts    []index.BuilderOption
	progress       index.ProgressFunc
	answerTimeout  time.Duration
	topK           int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache enables result and index caching.
func WithCache(c *cache.Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithSplitter overrides the default chunk splitter.
func WithSplitter(s *chunk.Splitter) Option {
	return func(p *Pipeline) {
		p.splitter = s
	}
}

// WithTopK sets how many passages are retrieved per section query.
func WithTopK(k int) Option {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithBuilderOptions passes options through to the index builder.
func WithBuilderOptions(opts ...index.BuilderOption) Option {
	return func(p *Pipeline) {
		p.builderOpts = append(p.builderOpts, opts...)
	}
}

// WithProgress sets the sink for fractional index-build progress.
func WithProgress(progress index.ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = progress
	}
}

// WithAnswerTimeout sets the wall-clock ceiling per Q&A completion.
func WithAnswerTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		if timeout > 0 {
			p.answerTimeout = timeout
		}
	}
}

// New creates a pipeline around the given model capabilities. The
// embedding model name is recorded in built indices.
func New(embedder llm.Embedder, completer llm.Completer, embeddingModel string, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:       embedder,
		completer:      completer,
		embeddingModel: embeddingModel,
		splitter:       chunk.NewSplitter(),
		answerTimeout:  DefaultAnswerTimeout,
		topK:           index.DefaultTopK,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.synthesizer = report.NewSynthesizer(p.embedder, p.completer, p.topK)
	p.answerer = report.NewAnswerer(p.embedder, p.completer)

	return p
}

// GenerateReport produces the four report sections for the document. On a
// cache hit the whole computation is skipped; otherwise the finished
// report and the built index are cached under the source fingerprint.
// The outcome is all-or-nothing: either a complete report or an error.
func (p *Pipeline) GenerateReport(ctx context.Context, src Source, company string) (*report.Sections, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	if company == "" {
		return nil, &ValidationError{Field: "company", Reason: "company name is required"}
	}

	key := cache.Fingerprint(src.Name, src.Size, src.ModTime)

	if cached, ok := p.getReport(key); ok {
		return cached, nil
	}

	ix, err := p.buildIndex(ctx, src, key)
	if err != nil {
		return nil, err
	}

	sections, err := p.synthesizer.Generate(ctx, ix, company)
	if err != nil {
		return nil, err
	}

	p.putReport(key, sections)

	return sections, nil
}

// AnswerQuestion answers a free-form question against the document,
// reusing a cached index when one exists. A completion that exceeds the
// answer timeout fails with guidance to simplify the question.
func (p *Pipeline) AnswerQuestion(ctx context.Context, src Source, company, question string) (string, error) {
	if err := validateSource(src); err != nil {
		return "", err
	}
	if company == "" {
		return "", &ValidationError{Field: "company", Reason: "company name is required"}
	}
	if question == "" {
		return "", &ValidationError{Field: "question", Reason: "question is required"}
	}

	key := cache.Fingerprint(src.Name, src.Size, src.ModTime)

	ix, err := p.buildIndex(ctx, src, key)
	if err != nil {
		return "", err
	}

	answerCtx, cancel := context.WithTimeout(ctx, p.answerTimeout)
	defer cancel()

	answer, err := p.answerer.Answer(answerCtx, ix, company, question)
	if err != nil {
		if llm.IsTimeout(err) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: %v", ErrAnswerTimeout, err)
		}
		return "", err
	}

	return answer, nil
}

// BuildIndex extracts, normalizes, chunks, and embeds the document,
// returning the built index. Exposed for index inspection; report and Q&A
// flows call it internally with caching applied.
func (p *Pipeline) BuildIndex(ctx context.Context, src Source) (*index.Index, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	return p.buildIndex(ctx, src, cache.Fingerprint(src.Name, src.Size, src.ModTime))
}

// buildIndex returns the cached index for key or builds and caches a
// fresh one.
func (p *Pipeline) buildIndex(ctx context.Context, src Source, key string) (*index.Index, error) {
	if ix, ok := p.getIndex(key); ok {
		return ix, nil
	}

	raw, err := extract.Text(src.Path)
	if err != nil {
		return nil, err
	}

	normalized := normalize.Normalize(raw)
	if normalized == "" {
		return nil, fmt.Errorf("%w: document is empty after normalization", extract.ErrExtraction)
	}

	chunks := p.splitter.Split(normalized)

	opts := p.builderOpts
	if p.progress != nil {
		opts = append(opts, index.WithProgress(p.progress))
	}
	builder := index.NewBuilder(p.embedder, p.embeddingModel, opts...)

	ix, err := builder.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	p.putIndex(key, ix)

	return ix, nil
}

// getReport returns a cached report, if any. Cache read failures are
// treated as misses: the cache is an optimization, never a gate.
func (p *Pipeline) getReport(key string) (*report.Sections, bool) {
	if p.cache == nil {
		return nil, false
	}

	payload, ok, err := p.cache.Get(reportKeyPrefix + key)
	if err != nil || !ok {
		return nil, false
	}

	var sections report.Sections
	if err := json.Unmarshal(payload, &sections); err != nil {
		return nil, false
	}
	return &sections, true
}

// putReport caches a finished report. Failures are ignored.
func (p *Pipeline) putReport(key string, sections *report.Sections) {
	if p.cache == nil {
		return
	}

	payload, err := json.Marshal(sections)
	if err != nil {
		return
	}
	_ = p.cache.Put(reportKeyPrefix+key, payload)
}

// getIndex returns a cached index, if any.
func (p *Pipeline) getIndex(key string) (*index.Index, bool) {
	if p.cache == nil {
		return nil, false
	}

	payload, ok, err := p.cache.Get(indexKeyPrefix + key)
	if err != nil || !ok {
		return nil, false
	}

	var ix index.Index
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&ix); err != nil {
		return nil, false
	}
	if ix.Version != index.CurrentIndexVersion || ix.Model != p.embeddingModel {
		return nil, false
	}
	return &ix, true
}

// putIndex caches a built index. Failures are ignored.
func (p *Pipeline) putIndex(key string, ix *index.Index) {
	if p.cache == nil {
		return
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ix); err != nil {
		return
	}
	_ = p.cache.Put(indexKeyPrefix+key, buf.Bytes())
}

// validateSource checks that the source names a readable document.
func validateSource(src Source) error {
	if src.Path == "" {
		return &ValidationError{Field: "document", Reason: "document path is required"}
	}
	if _, err := os.Stat(src.Path); err != nil {
		return &ValidationError{Field: "document", Reason: fmt.Sprintf("document not readable: %v", err)}
	}
	return nil
}
