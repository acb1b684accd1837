package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("scan: %w", Transport("gemini-2.5-flash", context.DeadlineExceeded))

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	e := &Error{Kind: KindExhausted, Op: "bill", Model: "m2", Attempts: 2, Err: errors.New("quota")}
	assert.Equal(t, "bill: exhausted_candidates after 2 attempts, last model m2: quota", e.Error())
	assert.Equal(t, "audio: malformed_response: bad", Malformed("audio", errors.New("bad")).Error())
}

func TestParseLocale(t *testing.T) {
	for in, want := range map[string]Locale{"": LocaleEnglish, "EN": LocaleEnglish, " ta ": LocaleTamil, "Ta": LocaleTamil} {
		got, err := ParseLocale(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLocale("fr")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRequestVariants(t *testing.T) {
	var r Request = BillRequest{Image: []byte("i"), MimeType: "image/png", Locale: LocaleTamil}
	data, mt := r.Payload()
	assert.Equal(t, KindBill, r.Kind())
	assert.Equal(t, "i", string(data))
	assert.Equal(t, "image/png", mt)
	assert.Equal(t, LocaleTamil, r.Lang())

	r = AudioRequest{Audio: []byte("a"), MimeType: "audio/webm"}
	assert.Equal(t, KindAudio, r.Kind())
}
