package utils_test

import (
	"testing"
	"time"

	"github.com/temirov/summarize/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 B"},
		{name: "zero", bytes: 0, expected: "0 B"},
		{name: "bytes", bytes: 512, expected: "512 B"},
		{name: "fractional kibibyte", bytes: 1536, expected: "1.5 KiB"},
		{name: "ten mebibytes", bytes: 10 * 1024 * 1024, expected: "10 MiB"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	if result := utils.FormatCount(1234567); result != "1,234,567" {
		t.Fatalf("expected 1,234,567, got %s", result)
	}
	if result := utils.FormatCount(0); result != "0" {
		t.Fatalf("expected 0, got %s", result)
	}
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{name: "sub second", elapsed: 250 * time.Millisecond, expected: "0.25 seconds"},
		{name: "seconds", elapsed: 12340 * time.Millisecond, expected: "12.34 seconds"},
		{name: "minutes", elapsed: 75500 * time.Millisecond, expected: "1 min 15.50 sec"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatDuration(testCase.elapsed)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
