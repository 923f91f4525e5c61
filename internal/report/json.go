package report

import (
	"encoding/json"
	"time"

	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
)

// JSONFormatter renders a report as machine-readable JSON.
type JSONFormatter struct{}

type jsonReport struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Root        string     `json:"root"`
	Stats       jsonStats  `json:"stats"`
	Files       []jsonFile `json:"files"`
	Errors      []string   `json:"errors,omitempty"`
}

type jsonStats struct {
	DurationMS         int64          `json:"duration_ms"`
	FilesScanned       int            `json:"files_scanned"`
	FilesSkipped       int            `json:"files_skipped"`
	EmptyFiles         int            `json:"empty_files"`
	FileBatches        int            `json:"file_batches"`
	APICalls           int            `json:"api_calls"`
	FailedCalls        int            `json:"failed_calls"`
	Records            int            `json:"records"`
	RecordsPerCategory map[string]int `json:"records_per_category,omitempty"`
}

type jsonFile struct {
	Path     string       `json:"path"`
	Language string       `json:"language"`
	Analyses []jsonRecord `json:"analyses"`
}

type jsonRecord struct {
	Category      string `json:"category"`
	SubcategoryID string `json:"subcategory_id"`
	Subcategory   string `json:"subcategory"`
	Content       string `json:"content"`
}

// Format renders the report as indented JSON.
func (f *JSONFormatter) Format(rep *scanner.Report) ([]byte, error) {
	out := jsonReport{
		RunID:       rep.RunID,
		GeneratedAt: time.Now().UTC(),
		Root:        rep.Root,
		Stats: jsonStats{
			DurationMS:         rep.Stats.Duration.Milliseconds(),
			FilesScanned:       rep.Stats.FilesScanned,
			FilesSkipped:       rep.Stats.FilesSkipped,
			EmptyFiles:         rep.Stats.EmptyFiles,
			FileBatches:        rep.Stats.FileBatches,
			APICalls:           rep.Stats.APICalls,
			FailedCalls:        rep.Stats.FailedCalls,
			Records:            rep.Stats.Records,
			RecordsPerCategory: rep.Stats.RecordsPerCategory,
		},
	}

	for _, path := range rep.Result.Files() {
		records := rep.Result.Records(path)
		jf := jsonFile{Path: path}
		if len(records) > 0 {
			jf.Language = string(records[0].Language)
		}
		for _, rec := range records {
			jf.Analyses = append(jf.Analyses, jsonRecord{
				Category:      rec.Category,
				SubcategoryID: rec.SubcategoryID,
				Subcategory:   rec.Subcategory,
				Content:       rec.Content,
			})
		}
		out.Files = append(out.Files, jf)
	}

	for _, e := range rep.Errors {
		out.Errors = append(out.Errors, e.Error())
	}

	return json.MarshalIndent(out, "", "  ")
}
