package summary

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiProviderName    = "Gemini"
	geminiModelPathPrefix = "models/"
	geminiTopP            = 0.95
	geminiTopK            = 40
	geminiMaxOutputTokens = 8192

	errorGeminiClientFormat   = "create gemini client: %w"
	errorGeminiGenerateFormat = "gemini generate content with %s: %w"
	errorGeminiListFormat     = "list gemini models: %w"
)

// GeminiGenerator wraps the official genai client.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// GeminiModel is one entry of the provider's model listing.
type GeminiModel struct {
	Name             string
	DisplayName      string
	Description      string
	InputTokenLimit  int32
	OutputTokenLimit int32
	SupportedActions []string
}

// NewGeminiGenerator creates a genai client for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, model string, apiKey string, baseURL string, httpClient *http.Client) (*GeminiGenerator, error) {
	client, clientError := newGeminiClient(ctx, apiKey, baseURL, httpClient)
	if clientError != nil {
		return nil, clientError
	}
	return &GeminiGenerator{client: client, model: strings.TrimPrefix(model, geminiModelPathPrefix)}, nil
}

func newGeminiClient(ctx context.Context, apiKey string, baseURL string, httpClient *http.Client) (*genai.Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, clientError := genai.NewClient(ctx, clientConfig)
	if clientError != nil {
		return nil, fmt.Errorf(errorGeminiClientFormat, clientError)
	}
	return client, nil
}

// Generate sends the prompt followed by the codebase as a single user turn.
func (generator *GeminiGenerator) Generate(ctx context.Context, prompt string, content string) (string, error) {
	response, generateError := generator.client.Models.GenerateContent(ctx, generator.model,
		[]*genai.Content{{Role: roleUser, Parts: []*genai.Part{{Text: combinedPrompt(prompt, content)}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](temperature),
			TopP:            genai.Ptr[float32](geminiTopP),
			TopK:            genai.Ptr[float32](geminiTopK),
			MaxOutputTokens: geminiMaxOutputTokens,
		},
	)
	if generateError != nil {
		return "", fmt.Errorf(errorGeminiGenerateFormat, generator.model, generateError)
	}
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", emptyResponseError(geminiProviderName)
	}
	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			builder.WriteString(part.Text)
		}
	}
	if builder.Len() == 0 {
		return "", emptyResponseError(geminiProviderName)
	}
	return builder.String(), nil
}

// ListGeminiModels returns the models visible to apiKey sorted by name.
func ListGeminiModels(ctx context.Context, apiKey string, options Options) ([]GeminiModel, error) {
	client, clientError := newGeminiClient(ctx, apiKey, options.BaseURL, options.HTTPClient)
	if clientError != nil {
		return nil, clientError
	}
	var models []GeminiModel
	for model, listError := range client.Models.All(ctx) {
		if listError != nil {
			return nil, fmt.Errorf(errorGeminiListFormat, listError)
		}
		models = append(models, GeminiModel{
			Name:             strings.TrimPrefix(model.Name, geminiModelPathPrefix),
			DisplayName:      model.DisplayName,
			Description:      model.Description,
			InputTokenLimit:  model.InputTokenLimit,
			OutputTokenLimit: model.OutputTokenLimit,
			SupportedActions: model.SupportedActions,
		})
	}
	sort.Slice(models, func(left, right int) bool {
		return models[left].Name < models[right].Name
	})
	return models, nil
}
