package audio

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/application/audit"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/analysis"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

type stubAnalyzer struct {
	res    *ai.AudioAnalysisResult
	err    error
	locale ai.Locale
}

func (s *stubAnalyzer) RunAudioAnalysis(_ context.Context, _ []byte, _ string, locale ai.Locale) (*ai.AudioAnalysisResult, appai.Meta, error) {
	s.locale = locale
	return s.res, appai.Meta{Model: "gemini-2.5-flash", Attempts: 1, PromptVersion: "v"}, s.err
}

type memAudit struct {
	saved    []*analysis.Analysis
	failures []*analysis.Failure
}

func (m *memAudit) Save(_ context.Context, a *analysis.Analysis) error {
	m.saved = append(m.saved, a)
	return nil
}

func (m *memAudit) Paginate(context.Context, string, int, int) ([]*analysis.Analysis, error) {
	return nil, nil
}

func (m *memAudit) SaveFailure(_ context.Context, f *analysis.Failure) error {
	m.failures = append(m.failures, f)
	return nil
}

func TestDiagnose(t *testing.T) {
	an := &stubAnalyzer{res: &ai.AudioAnalysisResult{Status: ai.StatusWarning, HealthScore: 62, Description: "Bearing noise"}}
	aud := &memAudit{}
	svc := &Service{Analyzer: an, Audit: &audit.Recorder{Repo: aud, Logger: zerolog.Nop()}, Clock: fixedClock{}}

	out, err := svc.Diagnose(context.Background(), DiagnoseCommand{UserID: "u1", Audio: []byte("aud"), MimeType: "audio/webm", Locale: ai.LocaleTamil})
	require.NoError(t, err)
	assert.Equal(t, ai.StatusWarning, out.Result.Status)
	assert.Equal(t, "gemini-2.5-flash", out.Model)
	assert.Equal(t, ai.LocaleTamil, an.locale)

	require.Len(t, aud.saved, 1)
	assert.Equal(t, "audio", aud.saved[0].Kind)
	assert.Equal(t, fixedClock{}.Now(), aud.saved[0].CreatedAt)
}

func TestDiagnose_Failure(t *testing.T) {
	an := &stubAnalyzer{err: ai.Malformed("audio", assert.AnError)}
	aud := &memAudit{}
	svc := &Service{Analyzer: an, Audit: &audit.Recorder{Repo: aud, Logger: zerolog.Nop()}, Clock: fixedClock{}}

	_, err := svc.Diagnose(context.Background(), DiagnoseCommand{UserID: "u1", Audio: []byte("aud"), MimeType: "audio/webm"})
	assert.ErrorIs(t, err, ai.ErrMalformed)
	assert.Empty(t, aud.saved)
	require.Len(t, aud.failures, 1)
	assert.Equal(t, "malformed_response", aud.failures[0].ErrorKind)
}

func TestDiagnose_NilAudit(t *testing.T) {
	svc := &Service{Analyzer: &stubAnalyzer{res: &ai.AudioAnalysisResult{Status: ai.StatusHealthy}}, Clock: fixedClock{}}
	out, err := svc.Diagnose(context.Background(), DiagnoseCommand{Audio: []byte("aud"), MimeType: "audio/webm"})
	require.NoError(t, err)
	assert.Equal(t, ai.StatusHealthy, out.Result.Status)
}
