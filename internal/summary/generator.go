// Package summary asks a hosted model to describe concatenated source code.
package summary

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
)

// DefaultPrompt asks for an onboarding overview of the codebase.
const DefaultPrompt = "You are a senior software engineer reviewing a codebase. Generate a comprehensive overview.md file that explains the purpose, structure, and key components of this codebase. Focus on helping a new developer understand how the codebase is organized and how different parts work together."

// DefaultOutputFile receives the generated summary unless configured otherwise.
const DefaultOutputFile = "overview.md"

const (
	codebaseSeparator = "\n\nHere's the codebase:\n\n"
	maxResponseTokens = 4096
	temperature       = 0.7
	requestTimeout    = 5 * time.Minute

	errorUnsupportedFamilyFormat = "model %q cannot generate summaries (family %s)"
	errorMissingAPIKeyFormat     = "model %q requires an API key"
	errorEmptyResponseFormat     = "%s returned no summary content"
)

// Generator produces a summary of content following prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, content string) (string, error)
}

// Options overrides provider endpoints, mainly for tests.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGenerator returns the generator for the provider that serves model.
func NewGenerator(ctx context.Context, model tokenizer.Model, apiKey string, options Options) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, types.ConfigErrorf(errorMissingAPIKeyFormat, model.Identifier)
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	switch model.Family {
	case tokenizer.FamilyGemini:
		return NewGeminiGenerator(ctx, model.ProviderModel, apiKey, options.BaseURL, httpClient)
	case tokenizer.FamilyGPT:
		return newOpenAIGenerator(model.ProviderModel, apiKey, options.BaseURL, httpClient), nil
	case tokenizer.FamilyClaude:
		return newAnthropicGenerator(model.ProviderModel, apiKey, options.BaseURL, httpClient), nil
	default:
		return nil, types.ConfigErrorf(errorUnsupportedFamilyFormat, model.Identifier, model.Family)
	}
}

// combinedPrompt joins the instruction and the code for providers that take a single message.
func combinedPrompt(prompt string, content string) string {
	return prompt + codebaseSeparator + content
}

func emptyResponseError(provider string) error {
	return fmt.Errorf(errorEmptyResponseFormat, provider)
}
