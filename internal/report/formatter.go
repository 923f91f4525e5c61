// Package report renders completed scan reports as Markdown or JSON.
package report

import (
	"fmt"

	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
)

// Formatter renders a scan report into an output document.
type Formatter interface {
	Format(rep *scanner.Report) ([]byte, error)
}

// New returns the formatter for the named output format.
func New(format string) (Formatter, error) {
	switch format {
	case "markdown", "md", "":
		return &MarkdownFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", format)
	}
}
