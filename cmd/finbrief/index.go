package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

// IndexResponse is the response for the index command.
type IndexResponse struct {
	Source     string `json:"source"`
	Chunks     int    `json:"chunks"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

var indexCmd = &cobra.Command{
	Use:   "index <file.pdf>",
	Short: "Build the vector index for a PDF and print its stats",
	Long: `Build (or load from cache) the vector index for a financial PDF.

Useful for pre-warming the cache before a batch of questions, and for
checking how a document chunks and embeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	src := mustSource(args[0])
	p, cleanup := buildPipeline("Indexing " + src.Name)
	defer cleanup()

	start := time.Now()
	ix, err := p.BuildIndex(cmd.Context(), src)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	elapsed := time.Since(start)

	if humanOutput {
		fmt.Printf("Indexed %s: %d chunks, %d dimensions (%s) in %s\n",
			src.Name, ix.Len(), ix.Dimensions, ix.Model, elapsed.Round(time.Millisecond))
		return nil
	}

	return outputJSON(IndexResponse{
		Source:     src.Name,
		Chunks:     ix.Len(),
		Dimensions: ix.Dimensions,
		Model:      ix.Model,
		ElapsedMS:  elapsed.Milliseconds(),
	})
}
