package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

// Prompts supplies the versioned instruction templates.
type Prompts interface {
	Bill(locale domain.Locale) string
	Audio(locale domain.Locale) string
	Version() string
}

// Options is the externally configured part of the pipeline.
type Options struct {
	Models  []string
	Timeout time.Duration
}

// Meta describes how a result was obtained.
type Meta struct {
	Model         string `json:"model"`
	Attempts      int    `json:"attempts"`
	PromptVersion string `json:"promptVersion"`
}

// Service turns media plus a domain instruction into a validated result.
// It keeps no state between calls and is safe for concurrent use.
type Service struct {
	client  domain.Client
	prompts Prompts
	cascade *Cascade
}

func NewService(client domain.Client, prompts Prompts, opts Options, logger zerolog.Logger) *Service {
	models := make([]string, len(opts.Models))
	copy(models, opts.Models)
	return &Service{
		client:  client,
		prompts: prompts,
		cascade: &Cascade{
			Client:  client,
			Models:  models,
			Timeout: opts.Timeout,
			Logger:  logger.With().Str("component", "cascade").Logger(),
		},
	}
}

// RunBillAnalysis analyzes a photographed electricity bill.
func (s *Service) RunBillAnalysis(ctx context.Context, imageBytes []byte, mimeType string, locale domain.Locale) (*domain.BillAnalysisResult, Meta, error) {
	text, meta, err := s.acquire(ctx, domain.BillRequest{Image: imageBytes, MimeType: mimeType, Locale: locale})
	if err != nil {
		return nil, meta, err
	}
	raw, err := Normalize("bill", text)
	if err != nil {
		return nil, meta, err
	}
	res, err := domain.DecodeBillResult(raw)
	return res, meta, err
}

// RunAudioAnalysis diagnoses a machine audio recording.
func (s *Service) RunAudioAnalysis(ctx context.Context, audioBytes []byte, mimeType string, locale domain.Locale) (*domain.AudioAnalysisResult, Meta, error) {
	text, meta, err := s.acquire(ctx, domain.AudioRequest{Audio: audioBytes, MimeType: mimeType, Locale: locale})
	if err != nil {
		return nil, meta, err
	}
	raw, err := Normalize("audio", text)
	if err != nil {
		return nil, meta, err
	}
	res, err := domain.DecodeAudioResult(raw)
	return res, meta, err
}

// acquire runs the precondition checks, encoding and the cascade for one request.
func (s *Service) acquire(ctx context.Context, req domain.Request) (string, Meta, error) {
	op := string(req.Kind())
	meta := Meta{PromptVersion: s.prompts.Version()}

	if err := s.client.CheckCredential(); err != nil {
		return "", meta, domain.Configuration(op, err)
	}

	data, mimeType := req.Payload()
	part, err := EncodeBytes(data, mimeType)
	if err != nil {
		return "", meta, err
	}

	var instruction string
	switch req.Kind() {
	case domain.KindBill:
		instruction = s.prompts.Bill(req.Lang())
	case domain.KindAudio:
		instruction = s.prompts.Audio(req.Lang())
	}

	out, err := s.cascade.Run(ctx, instruction, part)
	meta.Model = out.Model
	meta.Attempts = out.Attempts
	if err != nil {
		if e, ok := err.(*domain.Error); ok {
			meta.Attempts = e.Attempts
			e.Op = op
		}
		return "", meta, err
	}
	return out.Text, meta, nil
}
