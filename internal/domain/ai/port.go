package ai

import "context"

// GenerateRequest is the content of one backend call: instruction text plus one media part.
type GenerateRequest struct {
	Model  string
	Prompt string
	Media  MediaPart
}

// Client is a generative-model backend. Generate issues exactly one call and
// returns the response text, which is never empty on success.
type Client interface {
	// CheckCredential fails when no usable API credential is configured.
	CheckCredential() error
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
