package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tok, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)

	signed, err := tok.Issue("u1")
	require.NoError(t, err)

	uid, err := tok.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestTokens_Rejects(t *testing.T) {
	tok, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)
	signed, err := tok.Issue("u1")
	require.NoError(t, err)

	other, err := NewTokens("other", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := time.Now().Add(2 * time.Hour)
	tok.now = func() time.Time { return later }
	_, err = tok.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tok.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tok.Issue("")
	assert.Error(t, err)
}

func TestNewTokens(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)

	tok, err := NewTokens("x", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, tok.ttl)
}

func TestBcrypt(t *testing.T) {
	b := Bcrypt{Cost: 4}
	h, err := b.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)
	assert.NoError(t, b.Compare(h, "secret1"))
	assert.Error(t, b.Compare(h, "secret2"))
}
