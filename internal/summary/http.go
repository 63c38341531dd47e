package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	headerContentType      = "Content-Type"
	contentTypeJSON        = "application/json"
	maxErrorBodyBytes      = 2048
	errorEncodeFormat      = "encode %s request: %w"
	errorRequestFormat     = "build %s request: %w"
	errorSendFormat        = "send %s request: %w"
	errorStatusFormat      = "%s API returned %s: %s"
	errorDecodeReplyFormat = "decode %s response: %w"
)

// postJSON sends payload to endpoint and decodes a successful reply into reply.
func postJSON(ctx context.Context, httpClient *http.Client, provider string, endpoint string, headers map[string]string, payload any, reply any) error {
	body, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return fmt.Errorf(errorEncodeFormat, provider, encodeError)
	}
	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if requestError != nil {
		return fmt.Errorf(errorRequestFormat, provider, requestError)
	}
	request.Header.Set(headerContentType, contentTypeJSON)
	for name, value := range headers {
		request.Header.Set(name, value)
	}

	response, sendError := httpClient.Do(request)
	if sendError != nil {
		return fmt.Errorf(errorSendFormat, provider, sendError)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		errorBody, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		return fmt.Errorf(errorStatusFormat, provider, response.Status, strings.TrimSpace(string(errorBody)))
	}
	if decodeError := json.NewDecoder(response.Body).Decode(reply); decodeError != nil {
		return fmt.Errorf(errorDecodeReplyFormat, provider, decodeError)
	}
	return nil
}

func endpointOrDefault(baseURL string, defaultBaseURL string, path string) string {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/") + path
}
