package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/millwatt/internal/infra/ai/gemini"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/openai"
)

func TestNew(t *testing.T) {
	c, err := New(Settings{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, c)

	c, err = New(Settings{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, c)

	_, err = New(Settings{Provider: "bard"})
	assert.Error(t, err)
}
