package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
	"github.com/drxyu/cerebras-code-scanner/internal/segment"
)

// MarkdownFormatter renders a report as a human-readable Markdown
// document: one section per file, one subsection per category, and one
// block per distinct analysis.
type MarkdownFormatter struct{}

// Format renders the report. Records sharing byte-identical content are
// grouped and printed once per group: the shared text is usually a
// whole-response fallback that backs several subcategories, so each
// subcategory's span is re-extracted from the shared block where
// possible.
func (f *MarkdownFormatter) Format(rep *scanner.Report) ([]byte, error) {
	files := rep.Result.Files()
	if len(files) == 0 {
		return []byte("# Scan Results\n\nNo results found.\n"), nil
	}

	var b strings.Builder
	b.WriteString("# Code Scan Results\n\n")

	for _, path := range files {
		records := rep.Result.Records(path)
		if len(records) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s\n", filepath.Base(path))
		fmt.Fprintf(&b, "**File:** %s  \n", path)
		fmt.Fprintf(&b, "**Language:** %s\n\n", capitalize(string(records[0].Language)))

		for _, cat := range categoryOrder(records) {
			fmt.Fprintf(&b, "### %s Analysis\n\n", capitalize(cat))
			writeCategory(&b, filterCategory(records, cat))
		}
	}

	return []byte(b.String()), nil
}

// writeCategory prints one category's records, deduplicating shared
// content blocks.
func writeCategory(b *strings.Builder, records []scanner.AnalysisRecord) {
	processed := make(map[string]bool)

	for _, rec := range records {
		if processed[rec.Content] {
			continue
		}
		processed[rec.Content] = true

		extracted, ok := segment.ExtractSubcategorySection(rec.Content, rec.Subcategory)
		if !ok || extracted == "" {
			fmt.Fprintf(b, "#### %s\n\n%s\n\n---\n\n", rec.Subcategory, rec.Content)
			continue
		}

		// The block answers several subcategories at once; print each
		// sharer's own span.
		for _, shared := range records {
			if shared.Content != rec.Content {
				continue
			}
			section, ok := segment.ExtractSubcategorySection(rec.Content, shared.Subcategory)
			if ok && section != "" {
				fmt.Fprintf(b, "#### %s\n\n%s\n\n---\n\n", shared.Subcategory, section)
			}
		}
	}
}

// categoryOrder returns the distinct categories in first-seen record order.
func categoryOrder(records []scanner.AnalysisRecord) []string {
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.Category] {
			seen[rec.Category] = true
			order = append(order, rec.Category)
		}
	}
	return order
}

func filterCategory(records []scanner.AnalysisRecord, category string) []scanner.AnalysisRecord {
	var out []scanner.AnalysisRecord
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
