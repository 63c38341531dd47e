package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/summarize/internal/utils"
)

// TestDeduplicatePatterns verifies that the first occurrence of each pattern is kept.
func TestDeduplicatePatterns(testingHandle *testing.T) {
	result := utils.DeduplicatePatterns([]string{"*.log", "build/", "*.log", "vendor", "build/"})
	expected := []string{"*.log", "build/", "vendor"}
	if !reflect.DeepEqual(result, expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, result)
	}
}

// TestCountLines verifies line counting with and without a trailing newline.
func TestCountLines(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty", content: "", expected: 0},
		{name: "single line without newline", content: "alpha", expected: 1},
		{name: "single line with newline", content: "alpha\n", expected: 1},
		{name: "blank line", content: "\n", expected: 1},
		{name: "three lines", content: "a\nb\nc", expected: 3},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			if actual := utils.CountLines(testCase.content); actual != testCase.expected {
				subtestHandle.Fatalf("expected %d lines, got %d", testCase.expected, actual)
			}
		})
	}
}

// TestSplitPathList verifies whitespace and NUL separated path input.
func TestSplitPathList(testingHandle *testing.T) {
	whitespaceSeparated := utils.SplitPathList("a.go  b.go\nsrc/c.go\t\n", false)
	if !reflect.DeepEqual(whitespaceSeparated, []string{"a.go", "b.go", "src/c.go"}) {
		testingHandle.Fatalf("unexpected whitespace split: %v", whitespaceSeparated)
	}

	nullSeparated := utils.SplitPathList("with space.go\x00other.go\x00\x00", true)
	if !reflect.DeepEqual(nullSeparated, []string{"with space.go", "other.go"}) {
		testingHandle.Fatalf("unexpected NUL split: %v", nullSeparated)
	}

	if empty := utils.SplitPathList(" \n ", false); len(empty) != 0 {
		testingHandle.Fatalf("expected no paths, got %v", empty)
	}
}

// TestIsBinary verifies NUL and invalid UTF-8 detection.
func TestIsBinary(testingHandle *testing.T) {
	if utils.IsBinary(nil) {
		testingHandle.Fatalf("empty data must be text")
	}
	if utils.IsBinary([]byte("héllo, 世界\n")) {
		testingHandle.Fatalf("UTF-8 text must not be binary")
	}
	if !utils.IsBinary([]byte{'a', 0x00, 'b'}) {
		testingHandle.Fatalf("NUL byte must be binary")
	}
	if !utils.IsBinary([]byte{0xc3, 0x28}) {
		testingHandle.Fatalf("invalid UTF-8 must be binary")
	}
}
