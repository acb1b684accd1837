package ai

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/millwatt/internal/domain/ai"
)

type scripted struct {
	text string
	err  error
}

// fakeClient answers per model and records every call.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]scripted
	credErr   error
	calls     []domain.GenerateRequest
}

func (f *fakeClient) CheckCredential() error { return f.credErr }

func (f *fakeClient) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	r, ok := f.responses[req.Model]
	f.mu.Unlock()
	if !ok {
		return "", context.DeadlineExceeded
	}
	return r.text, r.err
}

func (f *fakeClient) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Model)
	}
	return out
}

type fakePrompts struct{}

func (fakePrompts) Bill(l domain.Locale) string  { return "bill:" + string(l) }
func (fakePrompts) Audio(l domain.Locale) string { return "audio:" + string(l) }
func (fakePrompts) Version() string              { return "test" }
