package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

// EncodeBytes turns a raw media blob into the backend transport encoding.
func EncodeBytes(data []byte, mimeType string) (domain.MediaPart, error) {
	if len(data) == 0 {
		return domain.MediaPart{}, domain.InvalidRequest("encode", errors.New("media blob is empty"))
	}
	if strings.TrimSpace(mimeType) == "" {
		return domain.MediaPart{}, domain.InvalidRequest("encode", errors.New("media content type is required"))
	}
	return domain.MediaPart{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}, nil
}

// EncodeReader reads the whole blob before encoding; a read failure yields no output.
func EncodeReader(r io.Reader, mimeType string) (domain.MediaPart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.MediaPart{}, fmt.Errorf("read media blob: %w", err)
	}
	return EncodeBytes(data, mimeType)
}

// FromEncoded accepts base64 text that may carry a "data:<mime>;base64," prefix.
// The prefix is stripped when present; otherwise the payload passes through unchanged.
func FromEncoded(encoded, mimeType string) (domain.MediaPart, error) {
	payload, prefixMime := splitDataURL(strings.TrimSpace(encoded))
	if payload == "" {
		return domain.MediaPart{}, domain.InvalidRequest("encode", errors.New("media payload is empty"))
	}
	if mimeType == "" {
		mimeType = prefixMime
	}
	if mimeType == "" {
		return domain.MediaPart{}, domain.InvalidRequest("encode", errors.New("media content type is required"))
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return domain.MediaPart{}, domain.InvalidRequest("encode", fmt.Errorf("media payload is not base64: %w", err))
	}
	return domain.MediaPart{Data: payload, MimeType: mimeType}, nil
}

// Decode returns the raw bytes of a media part.
func Decode(part domain.MediaPart) ([]byte, error) {
	return base64.StdEncoding.DecodeString(part.Data)
}

func splitDataURL(s string) (payload, mimeType string) {
	if !strings.HasPrefix(s, "data:") {
		return s, ""
	}
	header, body, ok := strings.Cut(s, ",")
	if !ok {
		return s, ""
	}
	meta := strings.TrimPrefix(header, "data:")
	if i := strings.Index(meta, ";base64"); i >= 0 {
		meta = meta[:i]
	}
	return body, meta
}
