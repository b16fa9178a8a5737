package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrief/finbrief/internal/config"
	"github.com/finbrief/finbrief/internal/llm"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the response for the config command. The API key is
// reported only as present or absent.
type ConfigResponse struct {
	Path            string `json:"path"`
	HasAPIKey       bool   `json:"has_api_key"`
	BaseURL         string `json:"base_url"`
	EmbeddingModel  string `json:"embedding_model"`
	CompletionModel string `json:"completion_model"`
	CacheDir        string `json:"cache_dir"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	resp := ConfigResponse{
		Path:            config.Path(),
		HasAPIKey:       cfg.ResolveAPIKey(apiKeyFlag) != "",
		BaseURL:         cfg.BaseURL,
		EmbeddingModel:  cfg.EmbeddingModel,
		CompletionModel: cfg.CompletionModel,
		CacheDir:        cfg.ResolveCacheDir(),
	}
	if resp.BaseURL == "" {
		resp.BaseURL = llm.DefaultBaseURL
	}
	if resp.EmbeddingModel == "" {
		resp.EmbeddingModel = llm.DefaultEmbeddingModel
	}
	if resp.CompletionModel == "" {
		resp.CompletionModel = llm.DefaultCompletionModel
	}

	if humanOutput {
		fmt.Printf("Config file:      %s\n", resp.Path)
		fmt.Printf("API key:          %v\n", presence(resp.HasAPIKey))
		fmt.Printf("Base URL:         %s\n", resp.BaseURL)
		fmt.Printf("Embedding model:  %s\n", resp.EmbeddingModel)
		fmt.Printf("Completion model: %s\n", resp.CompletionModel)
		fmt.Printf("Cache dir:        %s\n", resp.CacheDir)
		return nil
	}

	return outputJSON(resp)
}

// presence renders a boolean as set/not set.
func presence(ok bool) string {
	if ok {
		return "set"
	}
	return "not set"
}
