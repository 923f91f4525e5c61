package scanner

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/drxyu/cerebras-code-scanner/internal/prompts"
)

// SystemPrompt is the system message sent with every analysis request.
const SystemPrompt = "You are an expert code analyzer specializing in security, performance, and code quality."

// ComposedPrompt is a ready-to-send analysis prompt together with the
// bookkeeping needed to attribute the response back to files and
// subcategories.
type ComposedPrompt struct {
	Text          string
	Language      Language
	Category      string
	Markers       []string // file markers, parallel to the batch's files; nil for single-file prompts
	Subcategories []prompts.Template
}

// CombineFiles concatenates a batch's file contents, each introduced by a
// "### FILE_<n>: <basename> ###" marker line. Markers are 1-indexed in
// file order. Blank files are skipped with a warning; their marker number
// is still consumed so the remaining markers stay aligned with the batch.
func CombineFiles(batch FileBatch) string {
	var b strings.Builder
	for i, f := range batch.Files {
		if strings.TrimSpace(f.Content) == "" {
			log.Printf("skipping empty file %s in batch", f.Path)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("### %s: %s ###\n\n", batch.Marker(i), filepath.Base(f.Path)))
		b.WriteString(f.Content)
	}
	return b.String()
}

// ComposeBatch builds a multi-file prompt covering every file in the batch
// and every subcategory in subs, for one category. The model is instructed
// to echo the FILE markers and per-area headings so the response can be
// segmented afterwards. An empty subcategory batch is an error: there is
// nothing to ask.
func ComposeBatch(batch FileBatch, category string, subs []prompts.Template) (ComposedPrompt, error) {
	if len(subs) == 0 {
		return ComposedPrompt{}, fmt.Errorf("no subcategories to compose for %s/%s", batch.Language, category)
	}
	if len(batch.Files) == 0 {
		return ComposedPrompt{}, fmt.Errorf("empty file batch for %s/%s", batch.Language, category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s code analyzer specializing in %s analysis.\n\n", batch.Language, category)
	fmt.Fprintf(&b, "Analyze the following code files for %s issues. Each file is marked with a clear FILE_X header.\n", category)
	b.WriteString("Treat each file separately and provide analysis for EACH file with clear file markers in your response.\n\n")
	b.WriteString("For each file, address these specific areas:\n")
	for _, sub := range subs {
		fmt.Fprintf(&b, "\n- **%s**:\n%s\n", sub.Name, sub.PromptTemplate)
	}
	b.WriteString("\nFor each file and each area above:\n")
	b.WriteString("1. Start with a clear header identifying the file (e.g., \"## FILE_1: filename.py\")\n")
	b.WriteString("2. Then for each area, provide a section with findings\n")
	b.WriteString("3. If an area has no issues for a file, explicitly state that no issues were found\n\n")
	b.WriteString("CODE FILES TO ANALYZE:\n")
	b.WriteString(CombineFiles(batch))

	return ComposedPrompt{
		Text:          b.String(),
		Language:      batch.Language,
		Category:      category,
		Markers:       batch.Markers(),
		Subcategories: subs,
	}, nil
}

// ComposeSingle builds a prompt for one file covering every subcategory in
// subs. No FILE markers are used; the response is attributed to the file
// directly and segmented by area headings only.
func ComposeSingle(file SourceFile, category string, subs []prompts.Template) (ComposedPrompt, error) {
	if len(subs) == 0 {
		return ComposedPrompt{}, fmt.Errorf("no subcategories to compose for %s/%s", file.Language, category)
	}

	var areas []string
	for _, sub := range subs {
		areas = append(areas, fmt.Sprintf("**%s**:\n%s", sub.Name, sub.PromptTemplate))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s code analyzer specializing in %s analysis.\n\n", file.Language, category)
	fmt.Fprintf(&b, "Analyze the following code for %s issues, addressing EACH of these specific areas:\n\n", category)
	b.WriteString(strings.Join(areas, "\n"))
	b.WriteString("\n\nFor each area, provide a separate section in your response with a clear heading matching the area name.\n")
	b.WriteString("If an area has no issues, explicitly state that no issues were found for that area.\n\n")
	b.WriteString("DO NOT skip any areas. Ensure you address all areas listed above.\n\n")
	fmt.Fprintf(&b, "CODE TO ANALYZE:\n```%s\n%s\n```", file.Language, file.Content)

	return ComposedPrompt{
		Text:          b.String(),
		Language:      file.Language,
		Category:      category,
		Subcategories: subs,
	}, nil
}

// ComposeLegacy builds a single-file prompt from one template's raw text,
// used by the pre-repository scan mode where each category maps to exactly
// one "general" prompt and the code is appended after the template.
func ComposeLegacy(file SourceFile, category string, tmpl prompts.Template) ComposedPrompt {
	var b strings.Builder
	b.WriteString(tmpl.PromptTemplate)
	fmt.Fprintf(&b, "\n\n```%s\n%s\n```", file.Language, file.Content)

	return ComposedPrompt{
		Text:          b.String(),
		Language:      file.Language,
		Category:      category,
		Subcategories: []prompts.Template{tmpl},
	}
}
