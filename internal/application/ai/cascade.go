package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

// Cascade tries an ordered list of model candidates until one returns text.
// One attempt per candidate, strictly sequential, no retry within a candidate.
type Cascade struct {
	Client  domain.Client
	Models  []string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Outcome reports which candidate answered.
type Outcome struct {
	Text     string
	Model    string
	Attempts int
}

func (c *Cascade) Run(ctx context.Context, prompt string, media domain.MediaPart) (Outcome, error) {
	if len(c.Models) == 0 {
		return Outcome{}, domain.Configuration("generate", errors.New("no model candidates configured"))
	}

	var (
		lastErr   error
		lastModel string
		attempts  int
	)
	for i, model := range c.Models {
		if err := ctx.Err(); err != nil {
			// parent context selesai, jangan lanjut ke kandidat berikutnya
			lastErr = err
			break
		}
		attempts++
		start := time.Now()
		text, err := c.attempt(ctx, model, prompt, media)
		if err == nil {
			c.Logger.Info().
				Str("model", model).
				Int("attempt", i+1).
				Dur("duration", time.Since(start)).
				Msg("model candidate succeeded")
			return Outcome{Text: text, Model: model, Attempts: attempts}, nil
		}
		c.Logger.Warn().
			Err(err).
			Str("model", model).
			Int("attempt", i+1).
			Dur("duration", time.Since(start)).
			Msg("model candidate failed")
		lastErr = err
		lastModel = model
	}

	return Outcome{}, &domain.Error{
		Kind:     domain.KindExhausted,
		Op:       "generate",
		Model:    lastModel,
		Attempts: attempts,
		Err:      lastErr,
	}
}

func (c *Cascade) attempt(ctx context.Context, model, prompt string, media domain.MediaPart) (string, error) {
	callCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	text, err := c.Client.Generate(callCtx, domain.GenerateRequest{Model: model, Prompt: prompt, Media: media})
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			return "", err
		}
		return "", domain.Transport(model, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.Transport(model, fmt.Errorf("empty response text"))
	}
	return text, nil
}
