package scanner

import (
	"github.com/drxyu/cerebras-code-scanner/internal/prompts"
	"github.com/drxyu/cerebras-code-scanner/internal/segment"
)

// AggregateBatch turns one raw model response into AnalysisRecords for
// every (file, subcategory) pair the prompt asked about. For each file the
// FILE marker section is located first; when that misses, the whole
// response stands in for the file's section. Within the file section each
// subcategory's span is extracted; when that misses, the enclosing section
// is reused as the record content. The fallback means several records can
// share byte-identical content — renderers deduplicate, aggregation never
// does.
func AggregateBatch(response string, batch FileBatch, category string, subs []prompts.Template) []AnalysisRecord {
	var records []AnalysisRecord
	for i, f := range batch.Files {
		section, ok := segment.ExtractFileSection(response, batch.Marker(i))
		if !ok {
			section = response
		}
		records = append(records, aggregateSections(section, f, category, subs)...)
	}
	return records
}

// AggregateSingle handles the single-file prompt shape, where no FILE
// markers exist and the response is segmented by subcategory headings only.
func AggregateSingle(response string, file SourceFile, category string, subs []prompts.Template) []AnalysisRecord {
	return aggregateSections(response, file, category, subs)
}

func aggregateSections(section string, file SourceFile, category string, subs []prompts.Template) []AnalysisRecord {
	records := make([]AnalysisRecord, 0, len(subs))
	for _, sub := range subs {
		content, ok := segment.ExtractSubcategorySection(section, sub.Name)
		if !ok {
			content = section
		}
		records = append(records, AnalysisRecord{
			FilePath:      file.Path,
			Language:      file.Language,
			Category:      category,
			SubcategoryID: sub.ID,
			Subcategory:   sub.Name,
			Content:       content,
		})
	}
	return records
}
