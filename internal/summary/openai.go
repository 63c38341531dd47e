package summary

import (
	"context"
	"net/http"
	"strings"
)

const (
	openAIProviderName   = "OpenAI"
	openAIDefaultBaseURL = "https://api.openai.com"
	openAIChatPath       = "/v1/chat/completions"
	headerAuthorization  = "Authorization"
	bearerPrefix         = "Bearer "
	roleSystem           = "system"
	roleUser             = "user"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type openAIGenerator struct {
	model      string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func newOpenAIGenerator(model string, apiKey string, baseURL string, httpClient *http.Client) *openAIGenerator {
	return &openAIGenerator{
		model:      model,
		apiKey:     apiKey,
		endpoint:   endpointOrDefault(baseURL, openAIDefaultBaseURL, openAIChatPath),
		httpClient: httpClient,
	}
}

// Generate sends the prompt as the system message and the codebase as the user message.
func (generator *openAIGenerator) Generate(ctx context.Context, prompt string, content string) (string, error) {
	payload := openAIRequest{
		Model: generator.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: prompt},
			{Role: roleUser, Content: content},
		},
		Temperature: temperature,
		MaxTokens:   maxResponseTokens,
	}
	var reply openAIResponse
	headers := map[string]string{headerAuthorization: bearerPrefix + generator.apiKey}
	if postError := postJSON(ctx, generator.httpClient, openAIProviderName, generator.endpoint, headers, payload, &reply); postError != nil {
		return "", postError
	}
	if len(reply.Choices) == 0 || strings.TrimSpace(reply.Choices[0].Message.Content) == "" {
		return "", emptyResponseError(openAIProviderName)
	}
	return reply.Choices[0].Message.Content, nil
}
