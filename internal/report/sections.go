// Package report synthesizes fixed financial report sections and ad-hoc
// answers from retrieved document passages.
package report

import "fmt"

// SectionKind identifies one of the four fixed report sections. The set is
// closed: template selection is by exhaustive switch so a missing section
// is a compile-time bug, not a runtime lookup miss.
type SectionKind int

const (
	Overview SectionKind = iota
	FinancialHighlights
	KeyRisks
	ManagementCommentary
)

// AllSections returns the four report sections in display order.
func AllSections() []SectionKind {
	return []SectionKind{Overview, FinancialHighlights, KeyRisks, ManagementCommentary}
}

// String returns the section's display title.
func (k SectionKind) String() string {
	switch k {
	case Overview:
		return "Overview"
	case FinancialHighlights:
		return "Financial Highlights"
	case KeyRisks:
		return "Key Risks"
	case ManagementCommentary:
		return "Management Commentary"
	default:
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
}

// retrievalQuery returns the query used to retrieve passages for this
// section.
func (k SectionKind) retrievalQuery(company string) string {
	switch k {
	case Overview:
		return fmt.Sprintf("%s company overview, business description, operations, strategy, and market position", company)
	case FinancialHighlights:
		return fmt.Sprintf("%s revenue, net income, earnings, margins, cash flow, and year-over-year financial results", company)
	case KeyRisks:
		return fmt.Sprintf("%s risk factors, uncertainties, competition, regulatory exposure, and threats to the business", company)
	case ManagementCommentary:
		return fmt.Sprintf("%s management discussion, outlook, guidance, priorities, and forward-looking statements", company)
	default:
		return company
	}
}

// systemPrompt returns the system instruction for this section.
func (k SectionKind) systemPrompt() string {
	base := "You are a financial analyst writing one section of a report about a company, " +
		"using only the document excerpts provided. Write 3-4 bullet points. " +
		"Each bullet is one or two sentences, starts with \"• \", and sits on its own line. " +
		"Never merge bullets into a single line. Do not add headings or preamble."

	switch k {
	case Overview:
		return base + " Cover what the company does, where it operates, and its strategic position."
	case FinancialHighlights:
		return base + " Report concrete figures: revenue, profit, margins, cash flow, growth rates. " +
			"Exclude qualitative commentary that belongs in other sections."
	case KeyRisks:
		return base + " Cover the most material risks and uncertainties facing the business."
	case ManagementCommentary:
		return base + " Summarize management's own discussion, outlook, and priorities. " +
			"Exclude anything already classified as a risk."
	default:
		return base
	}
}

// userPrompt returns the user message for this section, combining the
// retrieved context with the generation instruction.
func (k SectionKind) userPrompt(company, context string) string {
	return fmt.Sprintf(`Company: %s
Section: %s

Document excerpts:
---
%s
---

Write the %s section as bullet points, grounded strictly in the excerpts above.`,
		company, k, context, k)
}

// Sections is a complete generated report: the unit stored in the result
// cache. Each field is plain text with one bullet per line.
type Sections struct {
	Overview             string `json:"overview"`
	FinancialHighlights  string `json:"financial_highlights"`
	KeyRisks             string `json:"key_risks"`
	ManagementCommentary string `json:"management_commentary"`
}

// Get returns the text of the given section.
func (s *Sections) Get(k SectionKind) string {
	switch k {
	case Overview:
		return s.Overview
	case FinancialHighlights:
		return s.FinancialHighlights
	case KeyRisks:
		return s.KeyRisks
	case ManagementCommentary:
		return s.ManagementCommentary
	default:
		return ""
	}
}

// set stores text for the given section.
func (s *Sections) set(k SectionKind, text string) {
	switch k {
	case Overview:
		s.Overview = text
	case FinancialHighlights:
		s.FinancialHighlights = text
	case KeyRisks:
		s.KeyRisks = text
	case ManagementCommentary:
		s.ManagementCommentary = text
	}
}
