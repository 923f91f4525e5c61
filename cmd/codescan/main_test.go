package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		output string
		want   string
	}{
		{"explicit flag wins", "json", "scan_results.md", "json"},
		{"explicit markdown over json extension", "markdown", "report.json", "markdown"},
		{"json extension inferred", "", "report.json", "json"},
		{"json extension case-insensitive", "", "report.JSON", "json"},
		{"markdown extension", "", "scan_results.md", "markdown"},
		{"unknown extension defaults to markdown", "", "report.txt", "markdown"},
		{"no extension defaults to markdown", "", "results", "markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveFormat(tt.format, tt.output))
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "", shortID(""))
}
