package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/temirov/summarize/internal/summary"
	"github.com/temirov/summarize/internal/tokenizer"
)

func TestWriteModelCatalogueMarksDefault(testingHandle *testing.T) {
	testingHandle.Parallel()
	var buffer bytes.Buffer
	if writeError := WriteModelCatalogue(&buffer, tokenizer.NewCatalogue(nil).Models()); writeError != nil {
		testingHandle.Fatalf("WriteModelCatalogue error: %v", writeError)
	}
	rendered := buffer.String()
	for _, fragment := range []string{"Model", tokenizer.DefaultModel + " (default)", "Claude 3 Opus", "0.0750"} {
		if !strings.Contains(rendered, fragment) {
			testingHandle.Fatalf("expected %q in catalogue:\n%s", fragment, rendered)
		}
	}
}

func TestWriteGeminiModels(testingHandle *testing.T) {
	testingHandle.Parallel()
	var buffer bytes.Buffer
	models := []summary.GeminiModel{{
		Name:             "gemini-2.0-flash",
		DisplayName:      "Gemini 2.0 Flash",
		InputTokenLimit:  1048576,
		OutputTokenLimit: 8192,
		SupportedActions: []string{"generateContent", "countTokens"},
	}}
	if writeError := WriteGeminiModels(&buffer, models); writeError != nil {
		testingHandle.Fatalf("WriteGeminiModels error: %v", writeError)
	}
	rendered := buffer.String()
	for _, fragment := range []string{"Available Gemini models:", "gemini-2.0-flash", "1,048,576", "8,192", "generateContent, countTokens"} {
		if !strings.Contains(rendered, fragment) {
			testingHandle.Fatalf("expected %q in listing:\n%s", fragment, rendered)
		}
	}
}
