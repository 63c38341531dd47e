package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/commands"
	"github.com/temirov/summarize/internal/filter"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/walker"
)

const (
	textFileName      = "plain.txt"
	textFileContent   = "hello\nworld\n"
	binaryFileName    = "data.bin"
	binaryFileContent = "\x00\xff"
	ignoredFileName   = "ignored.txt"
	directoryName     = "dir"
	nestedFileName    = "nested.txt"
)

func prepareTree(testingHandle *testing.T) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	files := map[string]string{
		textFileName:    textFileContent,
		binaryFileName:  binaryFileContent,
		ignoredFileName: "x",
		filepath.Join(directoryName, nestedFileName): "nested",
	}
	for relativePath, content := range files {
		absolutePath := filepath.Join(rootDirectory, relativePath)
		if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
			testingHandle.Fatalf("creating directory: %v", mkdirError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
			testingHandle.Fatalf("writing %s: %v", relativePath, writeError)
		}
	}
	return rootDirectory
}

func newWalker(testingHandle *testing.T, options filter.Options, warnings types.WarningSink) *walker.Walker {
	testingHandle.Helper()
	filterConfig, configError := filter.NewConfig(options)
	if configError != nil {
		testingHandle.Fatalf("NewConfig error: %v", configError)
	}
	return walker.New(filterConfig, nil, warnings)
}

func resolveRoots(testingHandle *testing.T, arguments ...string) []types.ValidatedPath {
	testingHandle.Helper()
	roots, resolveError := walker.ResolveRoots(arguments)
	if resolveError != nil {
		testingHandle.Fatalf("ResolveRoots error: %v", resolveError)
	}
	return roots
}

// TestGetContentData verifies document collection respecting ignore patterns and binary detection.
func TestGetContentData(testingHandle *testing.T) {
	rootDirectory := prepareTree(testingHandle)
	recorder := &types.WarningRecorder{}
	fileWalker := newWalker(testingHandle, filter.Options{IgnorePatterns: []string{ignoredFileName}}, recorder)

	documents, getError := commands.GetContentData(context.Background(), fileWalker, resolveRoots(testingHandle, rootDirectory), recorder)
	if getError != nil {
		testingHandle.Fatalf("GetContentData error: %v", getError)
	}
	if len(documents) != 2 {
		testingHandle.Fatalf("expected 2 documents, got %d: %+v", len(documents), documents)
	}
	expectedNested := filepath.ToSlash(filepath.Join(rootDirectory, directoryName, nestedFileName))
	if documents[0].DisplayPath != expectedNested || documents[0].Content != "nested" || documents[0].LineCount != 1 {
		testingHandle.Fatalf("unexpected nested document: %+v", documents[0])
	}
	if documents[1].Content != textFileContent || documents[1].LineCount != 2 {
		testingHandle.Fatalf("unexpected text document: %+v", documents[1])
	}

	kinds := recorder.Kinds()
	if len(kinds) != 1 || kinds[0] != types.WarningDecode {
		testingHandle.Fatalf("expected one decode warning for the binary file, got %v", kinds)
	}
}

// TestStreamContentStopsOnVisitorError verifies that visitor errors abort the walk.
func TestStreamContentStopsOnVisitorError(testingHandle *testing.T) {
	rootDirectory := prepareTree(testingHandle)
	fileWalker := newWalker(testingHandle, filter.Options{}, nil)
	visited := 0
	streamError := commands.StreamContent(context.Background(), fileWalker, resolveRoots(testingHandle, rootDirectory), nil, func(types.Document) error {
		visited++
		return os.ErrClosed
	})
	if streamError != os.ErrClosed {
		testingHandle.Fatalf("expected visitor error, got %v", streamError)
	}
	if visited != 1 {
		testingHandle.Fatalf("expected a single visit, got %d", visited)
	}
}

// TestCountTokens verifies discovery and counting together.
func TestCountTokens(testingHandle *testing.T) {
	rootDirectory := prepareTree(testingHandle)
	fileWalker := newWalker(testingHandle, filter.Options{Extensions: []string{"txt"}}, nil)

	gemini, tokenizerError := tokenizer.New(tokenizer.Model{Family: tokenizer.FamilyGemini}, "")
	if tokenizerError != nil {
		testingHandle.Fatalf("tokenizer error: %v", tokenizerError)
	}
	tokenAccountant, accountantError := accountant.New(accountant.Options{Workers: 2, Tokenizer: gemini})
	if accountantError != nil {
		testingHandle.Fatalf("accountant error: %v", accountantError)
	}

	discoveredFiles := -1
	summary, countError := commands.CountTokens(context.Background(), fileWalker, resolveRoots(testingHandle, rootDirectory), tokenAccountant, func(fileCount int) {
		discoveredFiles = fileCount
	})
	if countError != nil {
		testingHandle.Fatalf("CountTokens error: %v", countError)
	}
	if discoveredFiles != 3 {
		testingHandle.Fatalf("expected 3 discovered files before counting, got %d", discoveredFiles)
	}
	if summary.FilesCounted != 3 || summary.FilesErrored != 0 {
		testingHandle.Fatalf("unexpected counts: %+v", summary)
	}
	// plain.txt has 12 runes, ignored.txt 1, nested.txt 6.
	if summary.TotalTokens != 3+1+2 {
		testingHandle.Fatalf("expected 6 tokens, got %d", summary.TotalTokens)
	}
	if summary.Elapsed <= 0 {
		testingHandle.Fatalf("expected elapsed time to be recorded")
	}
}
