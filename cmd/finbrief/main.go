// Package main provides the finbrief CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// apiKeyFlag holds the --api-key flag value.
var apiKeyFlag string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finbrief",
	Short: "Financial report generation from PDF filings",
	Long: `finbrief reads a financial PDF, retrieves the passages relevant to each
report section, and asks a language model to synthesize a four-section
summary: overview, financial highlights, key risks, and management
commentary. It can also answer ad-hoc questions against the same document.

Finished reports and document indices are cached by file fingerprint for
24 hours, so repeat runs over the same filing are instant.

All commands output JSON by default for AI agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Model API key (overrides env and config)")
	rootCmd.Version = Version
}
