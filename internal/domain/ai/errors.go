package ai

import (
	"errors"
	"fmt"
)

// Kind tags every failure the pipeline can surface. The set is closed.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindInvalidRequest
	KindTransport
	KindExhausted
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidRequest:
		return "invalid_request"
	case KindTransport:
		return "transport"
	case KindExhausted:
		return "exhausted_candidates"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrConfiguration  = &Error{Kind: KindConfiguration}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrTransport      = &Error{Kind: KindTransport}
	ErrExhausted      = &Error{Kind: KindExhausted}
	ErrMalformed      = &Error{Kind: KindMalformed}
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMissingCredential is the cause of a Configuration error raised before any network call.
var ErrMissingCredential = errors.New("ai api key is missing")

// Error is the typed failure returned by every pipeline operation.
type Error struct {
	Kind     Kind
	Op       string // bill | audio | generate | encode | normalize
	Model    string // candidate that produced the failure, if any
	Attempts int    // number of candidates tried
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch {
	case e.Kind == KindExhausted:
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
		if e.Model != "" {
			msg += fmt.Sprintf(", last model %s", e.Model)
		}
	case e.Model != "":
		msg += " (" + e.Model + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Configuration(op string, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

func InvalidRequest(op string, err error) *Error {
	return &Error{Kind: KindInvalidRequest, Op: op, Err: err}
}

func Transport(model string, err error) *Error {
	return &Error{Kind: KindTransport, Op: "generate", Model: model, Err: err}
}

func Malformed(op string, err error) *Error {
	return &Error{Kind: KindMalformed, Op: op, Err: err}
}
