package middleware

import (
	"fmt"
	"net/mail"
	"strings"
)

// Input validation and sanitization utilities

// MediaKind selects the accepted upload types.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// ValidateMediaType checks a sniffed or declared MIME type against the upload kind.
// Browsers record audio as audio/webm or video/webm, both are accepted for audio.
func ValidateMediaType(kind MediaKind, mimeType string) error {
	mt := BaseMediaType(mimeType)
	if mt == "" {
		return fmt.Errorf("missing media type")
	}
	switch kind {
	case MediaImage:
		if strings.HasPrefix(mt, "image/") {
			return nil
		}
		return fmt.Errorf("invalid media type: %s (expected image/*)", mt)
	case MediaAudio:
		if strings.HasPrefix(mt, "audio/") || mt == "video/webm" {
			return nil
		}
		return fmt.Errorf("invalid media type: %s (expected audio/* or video/webm)", mt)
	}
	return fmt.Errorf("unknown media kind: %s", kind)
}

// BaseMediaType strips parameters such as ";codecs=opus".
func BaseMediaType(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// ValidateEmail checks a bare address like user@example.com
func ValidateEmail(email string) error {
	e := strings.TrimSpace(email)
	if e == "" {
		return fmt.Errorf("email cannot be empty")
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage validates the page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
