package summary

import (
	"context"
	"net/http"
	"strings"
)

const (
	anthropicProviderName   = "Anthropic"
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicMessagesPath   = "/v1/messages"
	anthropicVersion        = "2023-06-01"
	headerAPIKey            = "x-api-key"
	headerAnthropicVersion  = "anthropic-version"
	contentTypeText         = "text"
)

type anthropicRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicGenerator struct {
	model      string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func newAnthropicGenerator(model string, apiKey string, baseURL string, httpClient *http.Client) *anthropicGenerator {
	return &anthropicGenerator{
		model:      model,
		apiKey:     apiKey,
		endpoint:   endpointOrDefault(baseURL, anthropicDefaultBaseURL, anthropicMessagesPath),
		httpClient: httpClient,
	}
}

// Generate sends the prompt and the codebase as one user message.
func (generator *anthropicGenerator) Generate(ctx context.Context, prompt string, content string) (string, error) {
	payload := anthropicRequest{
		Model:     generator.model,
		Messages:  []chatMessage{{Role: roleUser, Content: combinedPrompt(prompt, content)}},
		MaxTokens: maxResponseTokens,
	}
	headers := map[string]string{
		headerAPIKey:           generator.apiKey,
		headerAnthropicVersion: anthropicVersion,
	}
	var reply anthropicResponse
	if postError := postJSON(ctx, generator.httpClient, anthropicProviderName, generator.endpoint, headers, payload, &reply); postError != nil {
		return "", postError
	}
	var builder strings.Builder
	for _, block := range reply.Content {
		if block.Type == contentTypeText || block.Type == "" {
			builder.WriteString(block.Text)
		}
	}
	if builder.Len() == 0 {
		return "", emptyResponseError(anthropicProviderName)
	}
	return builder.String(), nil
}
