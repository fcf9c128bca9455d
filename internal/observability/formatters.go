// Package observability provides structured logging setup and formatted
// output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/searchability"
	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", boxWidth-4-len([]rune(line))))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAnalysis outputs every section of an analysis report.
func (p *Printer) PrintAnalysis(title string, report *analysis.Report) {
	if report == nil {
		return
	}
	p.PrintScores(title, report.Result)
	p.PrintKeywords(report.Result.MatchedKeywords, report.Result.MissingKeywords)
	p.PrintSkills(report.Result.SkillsAnalysis)
	p.PrintSearchability(report.Searchability)
	p.PrintRecommendations(report.Result.Recommendations)
	p.PrintWarnings(report.Warnings)
}

// PrintScores outputs the headline scores with a bar for each.
func (p *Printer) PrintScores(title string, r types.AnalysisResult) {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(fmt.Sprintf("Position: %s\n\n", title))
	}
	sb.WriteString(fmt.Sprintf("ATS score      %3d  %s  (%s)\n", r.ATSScore, bar(r.ATSScore), r.Band()))
	sb.WriteString(fmt.Sprintf("Keyword match  %3d  %s\n", r.KeywordScore, bar(r.KeywordScore)))
	sb.WriteString(fmt.Sprintf("Skills match   %3d  %s", r.SkillsScore, bar(r.SkillsScore)))
	p.printBox("ATS COMPATIBILITY", sb.String())
}

func bar(score int) string {
	const width = 20
	filled := max(0, min(width, score*width/100))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// PrintKeywords outputs matched and missing keywords with their priorities.
func (p *Printer) PrintKeywords(matched, missing []types.KeywordTerm) {
	if len(matched) == 0 && len(missing) == 0 {
		p.printBox("KEYWORDS", "No keywords found in the job description.")
		return
	}

	var sb strings.Builder
	writeTerms := func(label, mark string, terms []types.KeywordTerm) {
		sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(terms)))
		count := min(len(terms), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %s %-28s %-6s x%d\n", mark, terms[i].Term, terms[i].Priority, terms[i].Count))
		}
		if len(terms) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(terms)-maxItemsToShow))
		}
	}
	writeTerms("Matched", "✓", matched)
	sb.WriteString("\n")
	writeTerms("Missing", "✗", missing)

	p.printBox("KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs per-category coverage. Categories the job does not ask
// for are listed as not required.
func (p *Printer) PrintSkills(skills []types.SkillCategory) {
	if len(skills) == 0 {
		return
	}
	var sb strings.Builder
	for _, s := range skills {
		if s.Relevant == 0 {
			sb.WriteString(fmt.Sprintf("%-22s  not required\n", s.Category))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-22s %3d%%  %d/%d\n", s.Category, s.Score, s.Matched, s.Relevant))
	}
	p.printBox("SKILLS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchability outputs the resume structure checks.
func (p *Printer) PrintSearchability(r searchability.Report) {
	var sb strings.Builder
	for _, c := range searchability.Checks() {
		mark := "✗"
		if r.Passed(c) {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, c))
	}
	p.printBox("SEARCHABILITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs numbered recommendations, wrapped to the box width.
func (p *Printer) PrintRecommendations(recs []string) {
	if len(recs) == 0 {
		return
	}
	var sb strings.Builder
	for i, rec := range recs {
		prefix := fmt.Sprintf("%d. ", i+1)
		for j, line := range wrap(rec, boxWidth-4-len(prefix)) {
			if j == 0 {
				sb.WriteString(prefix + line + "\n")
			} else {
				sb.WriteString(strings.Repeat(" ", len(prefix)) + line + "\n")
			}
		}
	}
	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs non-fatal analysis warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []analysis.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(p.out, "⚠ %s: %s\n", w.Code, w.Message)
	}
}

// BatchRow is one line of a batch summary.
type BatchRow struct {
	File   string
	Result *types.AnalysisResult
	Err    error
}

// PrintBatch outputs a one-line summary per resume, in the order given.
func (p *Printer) PrintBatch(title string, rows []BatchRow) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Position: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("%-26s %4s %4s %4s  %s\n", "File", "ATS", "KW", "SK", "Band"))
	for _, row := range rows {
		name := truncate(row.File, 26)
		if row.Err != nil {
			sb.WriteString(fmt.Sprintf("%-26s error: %v\n", name, row.Err))
			continue
		}
		r := row.Result
		sb.WriteString(fmt.Sprintf("%-26s %4d %4d %4d  %s\n", name, r.ATSScore, r.KeywordScore, r.SkillsScore, r.Band()))
	}
	p.printBox("BATCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTaxonomy outputs the taxonomy version and its categories.
func (p *Printer) PrintTaxonomy(tax *taxonomy.Taxonomy) {
	if tax == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Version: %s\n", tax.Version()))
	sb.WriteString(fmt.Sprintf("Terms:   %d\n", tax.TermCount()))
	sb.WriteString(fmt.Sprintf("Stop words: %d\n\n", len(tax.StopWords())))
	for _, c := range tax.Categories() {
		sb.WriteString(fmt.Sprintf("%-22s %3d terms\n", c.DisplayName(), len(c.Terms)))
	}
	p.printBox("SKILL TAXONOMY", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap splits s into lines of at most width runes at word boundaries.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
