package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/bryanwahyu/millwatt/internal/domain/ai"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the generateContent REST endpoint with inline media parts.
type Client struct {
	http       *resty.Client
	apiKey     string
	apiVersion string
}

type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string // v1 | v1beta
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(base, "/")).
		SetHeader("Content-Type", "application/json")
	return &Client{http: rc, apiKey: cfg.APIKey, apiVersion: version}
}

func (c *Client) CheckCredential() error {
	if strings.TrimSpace(c.apiKey) == "" || strings.Contains(c.apiKey, "PLACEHOLDER") {
		return ai.ErrMissingCredential
	}
	return nil
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	body := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: req.Prompt},
				{InlineData: &inlineData{MimeType: req.Media.MimeType, Data: req.Media.Data}},
			},
		}},
	}

	var out generateResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParams(map[string]string{"version": c.apiVersion, "model": req.Model}).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/{version}/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, msg)
		}
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode(), msg)
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("no candidates in gemini response")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("empty text in gemini response")
	}
	return sb.String(), nil
}
