package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

var fenceTokens = regexp.MustCompile("```(json)?")

// ExtractJSON picks the JSON candidate out of free model text: a ```json fenced
// block first, then the first "{" through the last "}", then the whole text.
func ExtractJSON(text string) string {
	candidate := text
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		candidate = text[start : end+1]
	}
	candidate = fenceTokens.ReplaceAllString(candidate, "")
	return strings.TrimSpace(candidate)
}

// Normalize extracts and syntax-checks the JSON record in text. It does not
// check the business schema.
func Normalize(op, text string) (json.RawMessage, error) {
	candidate := ExtractJSON(text)
	if candidate == "" {
		return nil, domain.Malformed(op, errors.New("response contains no JSON"))
	}
	if !json.Valid([]byte(candidate)) {
		var probe any
		err := json.Unmarshal([]byte(candidate), &probe)
		return nil, domain.Malformed(op, errors.Join(errors.New("response is not valid JSON"), err))
	}
	return json.RawMessage(candidate), nil
}
