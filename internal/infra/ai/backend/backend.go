// Package backend selects the generative-model client named in the configuration.
package backend

import (
	"fmt"

	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/gemini"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/openai"
)

type Settings struct {
	Provider   string // gemini | openai
	APIKey     string
	BaseURL    string
	APIVersion string
}

func New(s Settings) (ai.Client, error) {
	switch s.Provider {
	case "", "gemini":
		return gemini.NewClient(gemini.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, APIVersion: s.APIVersion}), nil
	case "openai":
		return openai.NewClient(s.APIKey, s.BaseURL), nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", s.Provider)
}
