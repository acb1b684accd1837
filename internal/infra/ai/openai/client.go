package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/millwatt/internal/domain/ai"
)

const maxTokens = 2048

// Client talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, or Gemini's /v1beta/openai compatibility layer).
type Client struct {
	*openai.Client
	apiKey string
}

func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), apiKey: apiKey}
}

func (c *Client) CheckCredential() error {
	if strings.TrimSpace(c.apiKey) == "" || strings.Contains(c.apiKey, "PLACEHOLDER") {
		return ai.ErrMissingCredential
	}
	return nil
}

// Generate sends the instruction plus the media as an image data URL.
// Chat completions has no inline audio part here, so audio is refused per call.
func (c *Client) Generate(ctx context.Context, in ai.GenerateRequest) (string, error) {
	if !strings.HasPrefix(in.Media.MimeType, "image/") {
		return "", fmt.Errorf("openai backend cannot send %s media", in.Media.MimeType)
	}

	req := openai.ChatCompletionRequest{
		Model: in.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: in.Prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:" + in.Media.MimeType + ";base64," + in.Media.Data,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(in.Model, "o1") || strings.HasPrefix(in.Model, "o3") || strings.HasPrefix(in.Model, "o4") || strings.HasPrefix(in.Model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, apiErr.Message)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, reqErr.Err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in chat completion")
	}
	return resp.Choices[0].Message.Content, nil
}
