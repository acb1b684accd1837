// Package audit keeps the trail of every analysis run: the archived media,
// the successful result and the failures.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/analysis"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

// Recorder writes audit entries. Nil Repo or Archive disables that part.
// Every method is best effort: failures are logged, never returned.
type Recorder struct {
	Repo    analysis.Repository
	Archive records.MediaArchive
	Logger  zerolog.Logger
}

// ArchiveMedia uploads the media under uid/kind/id.ext and returns its URL,
// or "" when archiving is off or failed.
func (r *Recorder) ArchiveMedia(ctx context.Context, uid string, kind ai.RequestKind, id string, data []byte, contentType string) string {
	if r == nil || r.Archive == nil || uid == "" || len(data) == 0 {
		return ""
	}
	key := fmt.Sprintf("%s/%s/%s%s", uid, kind, id, Extension(contentType))
	url, err := r.Archive.Put(ctx, key, data, contentType)
	if err != nil {
		r.Logger.Warn().Err(err).Str("key", key).Msg("archive media")
		return ""
	}
	return url
}

// Success stores the decoded result as JSON.
func (r *Recorder) Success(ctx context.Context, uid string, kind ai.RequestKind, meta appai.Meta, mediaURL string, result any, now time.Time) {
	if r == nil || r.Repo == nil || uid == "" {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		r.Logger.Error().Err(err).Msg("marshal analysis result")
		return
	}
	a := &analysis.Analysis{
		ID:            analysis.ID(uuid.New().String()),
		UserID:        uid,
		Kind:          string(kind),
		Model:         meta.Model,
		Attempts:      meta.Attempts,
		PromptVersion: meta.PromptVersion,
		MediaURL:      mediaURL,
		Result:        string(b),
		CreatedAt:     now,
	}
	if err := r.Repo.Save(ctx, a); err != nil {
		r.Logger.Error().Err(err).Str("kind", a.Kind).Msg("save analysis")
	}
}

// Failure logs the pipeline error and stores it with its kind.
func (r *Recorder) Failure(ctx context.Context, uid string, kind ai.RequestKind, cause error, now time.Time) {
	if r == nil {
		return
	}
	ek := ai.KindOf(cause).String()
	r.Logger.Warn().Err(cause).Str("kind", string(kind)).Str("error_kind", ek).Msg("analysis failed")
	if r.Repo == nil || uid == "" {
		return
	}
	f := &analysis.Failure{
		UserID:    uid,
		Kind:      string(kind),
		ErrorKind: ek,
		Message:   cause.Error(),
		CreatedAt: now,
	}
	var e *ai.Error
	if errors.As(cause, &e) {
		f.Model = e.Model
		f.Attempts = e.Attempts
	}
	if err := r.Repo.SaveFailure(ctx, f); err != nil {
		r.Logger.Error().Err(err).Msg("save analysis failure")
	}
}

// Extension maps a MIME type to a file extension, "" when unknown.
func Extension(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return ""
	}
	m := mimetype.Lookup(ct)
	if m == nil {
		return ""
	}
	return m.Extension()
}
