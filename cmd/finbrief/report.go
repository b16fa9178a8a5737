package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finbrief/finbrief/internal/report"
)

var reportCompany string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportCompany, "company", "c", "", "Company name (required)")
	reportCmd.MarkFlagRequired("company")
}

// ReportResponse is the response for the report command.
type ReportResponse struct {
	Company  string           `json:"company"`
	Source   string           `json:"source"`
	Sections *report.Sections `json:"sections"`
}

var reportCmd = &cobra.Command{
	Use:   "report <file.pdf>",
	Short: "Generate a four-section report from a financial PDF",
	Long: `Generate a report from a financial PDF with four fixed sections:
overview, financial highlights, key risks, and management commentary.

The four sections are synthesized concurrently. If any section fails, the
whole report fails; no partial report is emitted. Finished reports are
cached by file fingerprint for 24 hours.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	company := strings.TrimSpace(reportCompany)
	if company == "" {
		exitWithError(ExitDataError, "company name cannot be empty")
	}

	src := mustSource(args[0])
	p, cleanup := buildPipeline("Indexing " + src.Name)
	defer cleanup()

	sections, err := p.GenerateReport(cmd.Context(), src, company)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		printSectionsHuman(company, sections)
		return nil
	}

	return outputJSON(ReportResponse{
		Company:  company,
		Source:   src.Name,
		Sections: sections,
	})
}

// printSectionsHuman renders the report with section headings.
func printSectionsHuman(company string, sections *report.Sections) {
	fmt.Printf("%s\n%s\n", company, strings.Repeat("=", len(company)))
	for _, kind := range report.AllSections() {
		fmt.Printf("\n%s\n%s\n%s\n", kind, strings.Repeat("-", len(kind.String())), sections.Get(kind))
	}
}
