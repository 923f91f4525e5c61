package scanner

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ScanTarget describes what should be scanned.
type ScanTarget struct {
	RootDir        string
	Files          []string // explicit file list (relative to RootDir); walks RootDir when empty
	IgnorePatterns []string
}

// CollectFiles walks the scan target and returns matching file paths
// relative to RootDir, in walk order. If target.Files is set those are used
// directly (still filtered by extension and ignore patterns). Ignore-pattern
// matching and extension filtering happen here so the batching core only
// ever sees a clean file list.
func CollectFiles(target ScanTarget) ([]string, error) {
	extSet := make(map[string]bool)
	for _, ext := range ScanExtensions() {
		extSet[ext] = true
	}

	if len(target.Files) > 0 {
		var filtered []string
		for _, f := range target.Files {
			if !extSet[strings.ToLower(filepath.Ext(f))] {
				continue
			}
			if IsIgnored(f, target.IgnorePatterns) {
				continue
			}
			filtered = append(filtered, f)
		}
		return filtered, nil
	}

	var files []string
	err := filepath.Walk(target.RootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(target.RootDir, path)
		if err != nil {
			return nil
		}

		if !extSet[strings.ToLower(filepath.Ext(relPath))] {
			return nil
		}
		if IsIgnored(relPath, target.IgnorePatterns) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	return files, err
}

// IsIgnored returns true if the relative path matches any ignore pattern.
// Patterns match against the full relative path and the basename, and a
// trailing "/**" matches everything under a directory prefix.
func IsIgnored(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, filepath.Base(normalized)); err == nil && matched {
			return true
		}
		if strings.Contains(pattern, "**") {
			prefix := strings.TrimSuffix(pattern, "/**")
			if strings.HasPrefix(normalized, prefix+"/") || normalized == prefix {
				return true
			}
		}
	}
	return false
}

// ReadSourceFiles reads each collected path into a SourceFile. Unreadable
// files are reported as per-file errors and excluded; empty files are
// skipped silently (informational log only). Both cases leave the remaining
// files intact.
func ReadSourceFiles(rootDir string, paths []string) (files []SourceFile, empty int, errs []ScanError) {
	for _, relPath := range paths {
		data, err := os.ReadFile(filepath.Join(rootDir, relPath))
		if err != nil {
			errs = append(errs, ScanError{Stage: "read", Path: relPath, Err: err})
			continue
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			log.Printf("skipping empty file %s", relPath)
			empty++
			continue
		}

		lang := DetectLanguage(strings.ToLower(filepath.Ext(relPath)))
		if lang == LanguageUnknown {
			continue
		}

		files = append(files, SourceFile{
			Path:     relPath,
			Language: lang,
			Content:  string(data),
		})
	}
	return files, empty, errs
}
