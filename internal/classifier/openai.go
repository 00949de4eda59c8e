package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"milhas/internal/config"
	"milhas/pkg/errors"
)

const defaultBaseURL = "https://api.openai.com/v1"

// CompletionClient is the protocol boundary to the classification backend.
// Implementations carry no business logic: one request in, raw text out.
type CompletionClient interface {
	Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error)
}

// OpenAIClient talks to the OpenAI chat-completions endpoint.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat completion request and returns the answer text.
// Every transport or backend failure surfaces as a classification failure.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("api call: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", errors.ErrClassification.
				WithCause(fmt.Errorf("api error %d: %s: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)).
				WithDetail("status_code", resp.StatusCode)
		}
		return "", errors.ErrClassification.
			WithCause(fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))).
			WithDetail("status_code", resp.StatusCode)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("unmarshal response: %w", err))
	}

	if len(apiResp.Choices) == 0 {
		return "", errors.ErrClassification.WithCause(fmt.Errorf("empty response choices"))
	}

	return apiResp.Choices[0].Message.Content, nil
}
