package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced block wins over surrounding prose",
			in:   "Here you go {not this} ```json\n{\"a\":1}\n``` and {also not this}",
			want: `{"a":1}`,
		},
		{
			name: "bare object inside prose",
			in:   `Sure, the result is {"a": {"b": 2}} hope that helps`,
			want: `{"a": {"b": 2}}`,
		},
		{
			name: "whole text when there are no braces",
			in:   "  [1, 2, 3]  ",
			want: "[1, 2, 3]",
		},
		{
			name: "stray fence tokens are stripped",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "plain JSON passes through",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestNormalize_FencedPrecedence(t *testing.T) {
	text := "Intro text {\"wrong\":true}\n```json\n{\"right\":true}\n```\nOutro"
	raw, err := Normalize("bill", text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"right":true}`, string(raw))
}

func TestNormalize_BraceFallback(t *testing.T) {
	raw, err := Normalize("audio", `The machine sounds {"status":"Healthy","healthScore":90} overall.`)
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(raw, &v))
	assert.Equal(t, "Healthy", v["status"])
}

func TestNormalize_Failures(t *testing.T) {
	for name, text := range map[string]string{
		"empty":        "   ",
		"prose only":   "I could not read the bill, sorry.",
		"broken json":  "```json\n{\"a\": }\n```",
		"truncated":    `{"a": "b"`,
		"braces mixed": `} nothing {`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize("bill", text)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformed)
		})
	}
}
