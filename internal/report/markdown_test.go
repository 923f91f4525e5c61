package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
)

func testReport(records map[string][]scanner.AnalysisRecord, order []string) *scanner.Report {
	result := scanner.NewScanResult()
	for _, path := range order {
		result.Append(path, records[path]...)
	}
	return &scanner.Report{
		RunID:  "test-run",
		Root:   "/tmp/project",
		Result: result,
	}
}

func TestMarkdownEmpty(t *testing.T) {
	out, err := (&MarkdownFormatter{}).Format(testReport(nil, nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "No results found")
}

func TestMarkdownFileSections(t *testing.T) {
	rep := testReport(map[string][]scanner.AnalysisRecord{
		"src/app.py": {
			{
				FilePath: "src/app.py", Language: scanner.LanguagePython,
				Category: "security", SubcategoryID: "security-general",
				Subcategory: "General Security Analysis",
				Content:     "One injection issue found.",
			},
		},
	}, []string{"src/app.py"})

	out, err := (&MarkdownFormatter{}).Format(rep)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "# Code Scan Results")
	assert.Contains(t, md, "## app.py")
	assert.Contains(t, md, "**File:** src/app.py")
	assert.Contains(t, md, "**Language:** Python")
	assert.Contains(t, md, "### Security Analysis")
	assert.Contains(t, md, "#### General Security Analysis")
	assert.Contains(t, md, "One injection issue found.")
}

func TestMarkdownDeduplicatesSharedFallbackContent(t *testing.T) {
	// Two subcategories share a byte-identical whole-response fallback with
	// no extractable headings: the block must be printed once, not twice.
	shared := "The model answered without any section headings."
	rep := testReport(map[string][]scanner.AnalysisRecord{
		"a.py": {
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "security",
				SubcategoryID: "security-general", Subcategory: "General Security Analysis", Content: shared},
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "security",
				SubcategoryID: "security-secrets", Subcategory: "Hardcoded Secrets", Content: shared},
		},
	}, []string{"a.py"})

	out, err := (&MarkdownFormatter{}).Format(rep)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), shared))
}

func TestMarkdownSplitsSharedStructuredContent(t *testing.T) {
	// A shared block that does contain per-area headings is split: each
	// sharer gets its own extracted span.
	shared := `### General Security Analysis
Injection at line 3.

### Hardcoded Secrets
Token at line 9.`
	rep := testReport(map[string][]scanner.AnalysisRecord{
		"a.py": {
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "security",
				SubcategoryID: "security-general", Subcategory: "General Security Analysis", Content: shared},
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "security",
				SubcategoryID: "security-secrets", Subcategory: "Hardcoded Secrets", Content: shared},
		},
	}, []string{"a.py"})

	out, err := (&MarkdownFormatter{}).Format(rep)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "#### General Security Analysis\n\nInjection at line 3.")
	assert.Contains(t, md, "#### Hardcoded Secrets\n\nToken at line 9.")
	// The raw shared block itself is never dumped wholesale.
	assert.Equal(t, 1, strings.Count(md, "Injection at line 3."))
	assert.Equal(t, 1, strings.Count(md, "Token at line 9."))
}

func TestMarkdownGroupsByCategory(t *testing.T) {
	rep := testReport(map[string][]scanner.AnalysisRecord{
		"a.py": {
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "security",
				SubcategoryID: "security-general", Subcategory: "General Security Analysis", Content: "sec findings"},
			{FilePath: "a.py", Language: scanner.LanguagePython, Category: "performance",
				SubcategoryID: "performance-general", Subcategory: "General Performance Analysis", Content: "perf findings"},
		},
	}, []string{"a.py"})

	out, err := (&MarkdownFormatter{}).Format(rep)
	require.NoError(t, err)
	md := string(out)

	secIdx := strings.Index(md, "### Security Analysis")
	perfIdx := strings.Index(md, "### Performance Analysis")
	require.GreaterOrEqual(t, secIdx, 0)
	require.GreaterOrEqual(t, perfIdx, 0)
	assert.Less(t, secIdx, perfIdx)
}

func TestFormatterNew(t *testing.T) {
	f, err := New("markdown")
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)

	f, err = New("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = New("")
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)

	_, err = New("xml")
	assert.Error(t, err)
}
