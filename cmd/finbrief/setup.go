package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/chunk"
	"github.com/finbrief/finbrief/internal/config"
	"github.com/finbrief/finbrief/internal/index"
	"github.com/finbrief/finbrief/internal/llm"
	"github.com/finbrief/finbrief/internal/pipeline"
)

// mustLoadConfig loads the config file, exiting on parse errors.
func mustLoadConfig() *config.Config {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// buildPipeline assembles the pipeline from flags, environment, and
// config. The returned cleanup closes the cache store.
func buildPipeline(progressLabel string) (*pipeline.Pipeline, func()) {
	cfg := mustLoadConfig()

	key := cfg.ResolveAPIKey(apiKeyFlag)
	if key == "" {
		exitWithError(ExitConfigError,
			"no API key: set --api-key, FINBRIEF_API_KEY, OPENAI_API_KEY, or api_key in %s", config.Path())
	}

	var clientOpts []llm.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.BaseURL))
	}
	if cfg.EmbeddingModel != "" {
		clientOpts = append(clientOpts, llm.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	if cfg.CompletionModel != "" {
		clientOpts = append(clientOpts, llm.WithCompletionModel(cfg.CompletionModel))
	}
	client := llm.NewClient(key, clientOpts...)

	store, cleanup := openCacheStore(cfg)

	opts := []pipeline.Option{
		pipeline.WithCache(cache.New(store)),
	}

	var splitterOpts []chunk.Option
	if cfg.ChunkSize > 0 {
		splitterOpts = append(splitterOpts, chunk.WithChunkSize(cfg.ChunkSize))
	}
	if cfg.ChunkOverlap > 0 {
		splitterOpts = append(splitterOpts, chunk.WithOverlap(cfg.ChunkOverlap))
	}
	if len(splitterOpts) > 0 {
		opts = append(opts, pipeline.WithSplitter(chunk.NewSplitter(splitterOpts...)))
	}

	if cfg.TopK > 0 {
		opts = append(opts, pipeline.WithTopK(cfg.TopK))
	}
	if cfg.BatchSize > 0 {
		opts = append(opts, pipeline.WithBuilderOptions(index.WithBatchSize(cfg.BatchSize)))
	}
	if progress := progressMeter(progressLabel); progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}

	return pipeline.New(client, client, client.EmbeddingModel(), opts...), cleanup
}

// openCacheStore opens the SQLite cache store, falling back to an
// in-memory store when the database is unavailable. Caching is an
// optimization; a broken cache must not block report generation.
func openCacheStore(cfg *config.Config) (cache.Store, func()) {
	path := cfg.CacheDBPath()
	if path == "" {
		return cache.NewMemoryStore(), func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return cache.NewMemoryStore(), func() {}
	}

	store, err := cache.OpenSQLiteStore(path)
	if err != nil {
		return cache.NewMemoryStore(), func() {}
	}

	return store, func() { store.Close() }
}

// mustSource builds a pipeline Source from a path argument.
func mustSource(path string) pipeline.Source {
	src, err := pipeline.SourceFromFile(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return src
}
