package ai

import (
	"fmt"
	"strings"
)

// Locale selects the instruction language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleTamil   Locale = "ta"
)

// ParseLocale accepts "en" or "ta" in any case; empty means English.
func ParseLocale(s string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case "", LocaleEnglish:
		return LocaleEnglish, nil
	case LocaleTamil:
		return LocaleTamil, nil
	default:
		return "", InvalidRequest("locale", fmt.Errorf("unsupported locale %q", s))
	}
}

// MediaPart is the transport encoding the backend accepts.
type MediaPart struct {
	Data     string `json:"data"` // base64, no data URL prefix
	MimeType string `json:"mimeType"`
}

// RequestKind names the variant of a Request.
type RequestKind string

const (
	KindBill  RequestKind = "bill"
	KindAudio RequestKind = "audio"
)

// Request is either a BillRequest or an AudioRequest.
type Request interface {
	Kind() RequestKind
	Payload() ([]byte, string)
	Lang() Locale
}

type BillRequest struct {
	Image    []byte
	MimeType string
	Locale   Locale
}

func (BillRequest) Kind() RequestKind            { return KindBill }
func (r BillRequest) Payload() ([]byte, string) { return r.Image, r.MimeType }
func (r BillRequest) Lang() Locale               { return r.Locale }

type AudioRequest struct {
	Audio    []byte
	MimeType string
	Locale   Locale
}

func (AudioRequest) Kind() RequestKind            { return KindAudio }
func (r AudioRequest) Payload() ([]byte, string) { return r.Audio, r.MimeType }
func (r AudioRequest) Lang() Locale               { return r.Locale }
