// Package utils contains general helper functions used across the summarize tool.
package utils

import (
	"strings"
	"unicode"
)

const (
	lineSeparator = "\n"
	nullSeparator = '\x00'
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// CountLines returns the number of lines in content. A trailing newline does
// not start a new line and empty content has zero lines.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	lineCount := strings.Count(content, lineSeparator)
	if !strings.HasSuffix(content, lineSeparator) {
		lineCount++
	}
	return lineCount
}

// SplitPathList splits path arguments read from standard input. With
// nullSeparated the input is split on NUL bytes; otherwise on any whitespace.
// Empty items are dropped.
func SplitPathList(input string, nullSeparated bool) []string {
	var items []string
	if nullSeparated {
		items = strings.FieldsFunc(input, func(character rune) bool { return character == nullSeparator })
	} else {
		items = strings.FieldsFunc(input, unicode.IsSpace)
	}
	paths := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
