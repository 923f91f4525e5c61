// Package prompts loads and serves the repository of analysis prompt
// templates, organized by language, category, and subcategory.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

//go:embed defaults.json
var defaultRepository []byte

// Template is one subcategory prompt definition. Loaded once at startup and
// never mutated.
type Template struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"-"`
	PromptTemplate string `json:"prompt_template"`
	OutputFormat   string `json:"output_format,omitempty"`
	ExampleFix     string `json:"example_fix,omitempty"`
}

// repositoryFile is the on-disk JSON shape. Languages and categories are
// arrays so definition order survives decoding.
type repositoryFile struct {
	Metadata struct {
		Version     string `json:"version"`
		Description string `json:"description"`
	} `json:"metadata"`
	Languages []struct {
		Name       string `json:"name"`
		Categories []struct {
			Name          string     `json:"name"`
			Subcategories []Template `json:"subcategories"`
		} `json:"categories"`
	} `json:"languages"`
}

// Repository is the in-memory prompt template store.
type Repository struct {
	version   string
	langOrder []string
	catOrder  map[string][]string            // language -> categories
	templates map[string]map[string][]Template // language -> category -> templates
}

// Load reads a prompt repository from path, or the embedded default
// repository when path is empty. A missing or malformed file, or a
// repository containing no templates at all, is an error: the scan cannot
// proceed without at least one subcategory template.
func Load(path string) (*Repository, error) {
	data := defaultRepository
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading prompt repository %s: %w", path, err)
		}
	}

	var file repositoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing prompt repository: %w", err)
	}

	repo := &Repository{
		version:   file.Metadata.Version,
		catOrder:  make(map[string][]string),
		templates: make(map[string]map[string][]Template),
	}

	total := 0
	for _, lang := range file.Languages {
		repo.langOrder = append(repo.langOrder, lang.Name)
		repo.templates[lang.Name] = make(map[string][]Template)
		for _, cat := range lang.Categories {
			repo.catOrder[lang.Name] = append(repo.catOrder[lang.Name], cat.Name)
			seen := make(map[string]bool)
			for _, tmpl := range cat.Subcategories {
				if seen[tmpl.ID] {
					return nil, fmt.Errorf("duplicate subcategory id %q in %s/%s", tmpl.ID, lang.Name, cat.Name)
				}
				seen[tmpl.ID] = true
				tmpl.Category = cat.Name
				repo.templates[lang.Name][cat.Name] = append(repo.templates[lang.Name][cat.Name], tmpl)
				total++
			}
		}
	}

	if total == 0 {
		return nil, fmt.Errorf("prompt repository contains no templates")
	}

	log.Printf("loaded prompt repository (version %s, %d templates)", repo.Version(), total)
	return repo, nil
}

// Version returns the repository version string, or "unknown" if unset.
func (r *Repository) Version() string {
	if r.version == "" {
		return "unknown"
	}
	return r.version
}

// Languages returns the languages in definition order.
func (r *Repository) Languages() []string {
	return r.langOrder
}

// Categories returns the categories defined for a language, in definition
// order. Unknown languages yield nil.
func (r *Repository) Categories(language string) []string {
	return r.catOrder[language]
}

// Subcategories returns templates for a language filtered by categories and
// subcategory ids, preserving definition order. Nil filters select
// everything. A requested category that does not exist for the language is
// skipped with a warning, not an error.
func (r *Repository) Subcategories(language string, categories, ids []string) []Template {
	available := r.templates[language]
	if available == nil {
		log.Printf("no prompts defined for language %q", language)
		return nil
	}

	selected := r.catOrder[language]
	if len(categories) > 0 {
		selected = nil
		for _, cat := range categories {
			if _, ok := available[cat]; !ok {
				log.Printf("category %q not available for %s, skipping", cat, language)
				continue
			}
			selected = append(selected, cat)
		}
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var out []Template
	for _, cat := range selected {
		for _, tmpl := range available[cat] {
			if len(idSet) > 0 && !idSet[tmpl.ID] {
				continue
			}
			out = append(out, tmpl)
		}
	}
	return out
}

// Lookup finds a template by id within a language and category.
func (r *Repository) Lookup(language, category, id string) (Template, bool) {
	for _, tmpl := range r.templates[language][category] {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return Template{}, false
}

// LegacySubcategoryID returns the id of the single "general" subcategory
// used for a category in legacy mode. SQL ids carry a language prefix.
func LegacySubcategoryID(language, category string) string {
	if language == "sql" {
		return fmt.Sprintf("sql-%s-general", category)
	}
	return fmt.Sprintf("%s-general", category)
}

// LegacyCategories are the only categories consulted in legacy mode.
func LegacyCategories() []string {
	return []string{"security", "performance"}
}
