package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadScanIgnore reads glob patterns from a .scanignore file in the given
// directory, one pattern per line. Blank lines and lines starting with '#'
// are skipped. A missing file yields no patterns.
func LoadScanIgnore(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, ".scanignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading .scanignore: %w", err)
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading .scanignore: %w", err)
	}
	return patterns, nil
}
