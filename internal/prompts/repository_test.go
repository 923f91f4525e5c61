package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "1.2", repo.Version())
	assert.Equal(t, []string{"python", "sql"}, repo.Languages())
	assert.Equal(t, []string{"security", "performance", "maintainability"}, repo.Categories("python"))
	assert.Equal(t, []string{"security", "performance"}, repo.Categories("sql"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata":{"version":"1"},"languages":[]}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no templates")
}

func TestLoadDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	data := `{
		"metadata": {"version": "1"},
		"languages": [{
			"name": "python",
			"categories": [{
				"name": "security",
				"subcategories": [
					{"id": "sec-1", "name": "One", "prompt_template": "p"},
					{"id": "sec-1", "name": "Two", "prompt_template": "p"}
				]
			}]
		}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate subcategory id")
}

func TestSubcategoriesPreservesOrder(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	subs := repo.Subcategories("python", nil, nil)
	require.NotEmpty(t, subs)

	var ids []string
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{
		"security-general", "security-injection", "security-secrets",
		"performance-general", "performance-io",
		"maintainability-structure",
	}, ids)
}

func TestSubcategoriesCategoryFilter(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	subs := repo.Subcategories("python", []string{"performance"}, nil)
	require.Len(t, subs, 2)
	assert.Equal(t, "performance-general", subs[0].ID)
	assert.Equal(t, "performance", subs[0].Category)
	assert.Equal(t, "performance-io", subs[1].ID)
}

func TestSubcategoriesUnknownCategorySkipped(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	// Unknown category is skipped with a warning, not an error; the known
	// one still yields its templates.
	subs := repo.Subcategories("python", []string{"astrology", "security"}, nil)
	require.Len(t, subs, 3)
	for _, s := range subs {
		assert.Equal(t, "security", s.Category)
	}
}

func TestSubcategoriesIDFilter(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	subs := repo.Subcategories("python", nil, []string{"security-secrets", "performance-io"})
	require.Len(t, subs, 2)
	assert.Equal(t, "security-secrets", subs[0].ID)
	assert.Equal(t, "performance-io", subs[1].ID)
}

func TestSubcategoriesUnknownLanguage(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, repo.Subcategories("cobol", nil, nil))
}

func TestLookup(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	tmpl, ok := repo.Lookup("sql", "performance", "sql-performance-general")
	require.True(t, ok)
	assert.Equal(t, "General SQL Performance Analysis", tmpl.Name)
	assert.NotEmpty(t, tmpl.PromptTemplate)

	_, ok = repo.Lookup("sql", "performance", "missing")
	assert.False(t, ok)
}

func TestLegacySubcategoryID(t *testing.T) {
	assert.Equal(t, "security-general", LegacySubcategoryID("python", "security"))
	assert.Equal(t, "performance-general", LegacySubcategoryID("python", "performance"))
	assert.Equal(t, "sql-security-general", LegacySubcategoryID("sql", "security"))
	assert.Equal(t, "sql-performance-general", LegacySubcategoryID("sql", "performance"))
}

func TestLegacyIDsExistInDefaults(t *testing.T) {
	repo, err := Load("")
	require.NoError(t, err)

	for _, lang := range []string{"python", "sql"} {
		for _, cat := range LegacyCategories() {
			id := LegacySubcategoryID(lang, cat)
			_, ok := repo.Lookup(lang, cat, id)
			assert.True(t, ok, "expected %s/%s/%s in defaults", lang, cat, id)
		}
	}
}
