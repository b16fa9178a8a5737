package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCompany string

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askCompany, "company", "c", "", "Company name (required)")
	askCmd.MarkFlagRequired("company")
}

// AskResponse is the response for the ask command.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}

var askCmd = &cobra.Command{
	Use:   "ask <file.pdf> <question>",
	Short: "Answer a question about a financial PDF",
	Long: `Answer a free-form question against a financial PDF.

The document index is reused from cache when the same file was already
reported on or asked about, so follow-up questions skip re-embedding.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	company := strings.TrimSpace(askCompany)
	question := strings.TrimSpace(args[1])

	src := mustSource(args[0])
	p, cleanup := buildPipeline("Indexing " + src.Name)
	defer cleanup()

	answer, err := p.AnswerQuestion(cmd.Context(), src, company, question)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		fmt.Println(answer)
		return nil
	}

	return outputJSON(AskResponse{
		Question: question,
		Answer:   answer,
		Source:   src.Name,
	})
}
