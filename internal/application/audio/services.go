package audio

import (
	"context"

	"github.com/google/uuid"

	"github.com/bryanwahyu/millwatt/internal/application"
	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/application/audit"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
)

type Analyzer interface {
	RunAudioAnalysis(ctx context.Context, audioBytes []byte, mimeType string, locale ai.Locale) (*ai.AudioAnalysisResult, appai.Meta, error)
}

// Service implements the machine sound diagnosis use case.
type Service struct {
	Analyzer Analyzer
	Audit    *audit.Recorder
	Clock    application.Clock
}

type DiagnoseCommand struct {
	UserID   string
	Audio    []byte
	MimeType string
	Locale   ai.Locale
}

type DiagnoseResult struct {
	Result *ai.AudioAnalysisResult `json:"result"`
	appai.Meta
}

func (s *Service) Diagnose(ctx context.Context, cmd DiagnoseCommand) (*DiagnoseResult, error) {
	res, meta, err := s.Analyzer.RunAudioAnalysis(ctx, cmd.Audio, cmd.MimeType, cmd.Locale)
	if err != nil {
		s.Audit.Failure(ctx, cmd.UserID, ai.KindAudio, err, s.Clock.Now())
		return nil, err
	}
	url := s.Audit.ArchiveMedia(ctx, cmd.UserID, ai.KindAudio, uuid.New().String(), cmd.Audio, cmd.MimeType)
	s.Audit.Success(ctx, cmd.UserID, ai.KindAudio, meta, url, res, s.Clock.Now())
	return &DiagnoseResult{Result: res, Meta: meta}, nil
}
