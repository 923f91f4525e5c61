// Package scanner implements the batching, prompt composition, and response
// aggregation engine that drives LLM-based code analysis.
package scanner

import (
	"fmt"
	"time"
)

// Language identifies the source language of a scanned file.
type Language string

const (
	LanguagePython  Language = "python"
	LanguageSQL     Language = "sql"
	LanguageUnknown Language = ""
)

// DetectLanguage maps a file extension (lowercased, with dot) to a Language.
func DetectLanguage(ext string) Language {
	switch ext {
	case ".py":
		return LanguagePython
	case ".sql", ".pgsql", ".tsql", ".plsql":
		return LanguageSQL
	default:
		return LanguageUnknown
	}
}

// ScanExtensions returns all file extensions the scanner recognizes.
func ScanExtensions() []string {
	return []string{".py", ".sql", ".pgsql", ".tsql", ".plsql"}
}

// SourceFile is one file read at directory-walk time. Immutable once read.
type SourceFile struct {
	Path     string
	Language Language
	Content  string
}

// FileBatch is an ordered group of same-language files whose combined
// estimated token cost fits the configured budget.
type FileBatch struct {
	Language Language
	Files    []SourceFile
}

// Marker returns the prompt marker for the i-th file in the batch (1-indexed).
func (b FileBatch) Marker(i int) string {
	return fmt.Sprintf("FILE_%d", i+1)
}

// Markers returns the ordered marker list for the batch.
func (b FileBatch) Markers() []string {
	markers := make([]string, len(b.Files))
	for i := range b.Files {
		markers[i] = b.Marker(i)
	}
	return markers
}

// AnalysisRecord is the atomic output unit: one extracted text span tagged
// with a file, category, and subcategory. Multiple records may share
// identical content when extraction falls back to the full response; that
// duplication is resolved at render time, not here.
type AnalysisRecord struct {
	FilePath      string
	Language      Language
	Category      string
	SubcategoryID string
	Subcategory   string
	Content       string
}

// ScanResult maps file paths to their accumulated AnalysisRecords, keeping
// the order in which files were first seen. A file's record list only ever
// grows; records are appended as further batches and categories complete.
type ScanResult struct {
	order   []string
	records map[string][]AnalysisRecord
}

// NewScanResult creates an empty ScanResult.
func NewScanResult() *ScanResult {
	return &ScanResult{records: make(map[string][]AnalysisRecord)}
}

// Append adds records for a file, registering the path on first use.
func (r *ScanResult) Append(path string, recs ...AnalysisRecord) {
	if len(recs) == 0 {
		return
	}
	if _, ok := r.records[path]; !ok {
		r.order = append(r.order, path)
	}
	r.records[path] = append(r.records[path], recs...)
}

// Files returns the file paths in first-seen order.
func (r *ScanResult) Files() []string {
	return r.order
}

// Records returns the ordered records for a file path.
func (r *ScanResult) Records(path string) []AnalysisRecord {
	return r.records[path]
}

// Len returns the total number of records across all files.
func (r *ScanResult) Len() int {
	n := 0
	for _, recs := range r.records {
		n += len(recs)
	}
	return n
}

// ScanError records a recoverable error encountered during a scan.
type ScanError struct {
	Stage string // "read", "compose", "gateway"
	Path  string // file path or batch description
	Err   error
}

// Error implements the error interface for ScanError.
func (e ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Err)
}

// ScanStats holds counts and timing for a completed scan.
type ScanStats struct {
	Duration           time.Duration
	FilesScanned       int
	FilesSkipped       int
	EmptyFiles         int
	FileBatches        int
	APICalls           int
	FailedCalls        int
	Records            int
	RecordsPerCategory map[string]int
}

// Report is the top-level result of a scan run.
type Report struct {
	RunID  string
	Root   string
	Result *ScanResult
	Stats  ScanStats
	Errors []ScanError
}
