package intelligence

import (
	"context"

	"github.com/alexanderramin/aiscribe/internal/llm"
)

// mockLLMClient returns canned responses, optionally per task, and records
// every request it receives.
type mockLLMClient struct {
	response  string
	err       error
	byTask    map[llm.TaskType]string
	errByTask map[llm.TaskType]error
	requests  []llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if err, ok := m.errByTask[req.Task]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if text, ok := m.byTask[req.Task]; ok {
		return &llm.GenerateResponse{Text: text, Model: "gpt-4o-mini"}, nil
	}
	return &llm.GenerateResponse{Text: m.response, Model: "gpt-4o-mini"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

func (m *mockLLMClient) requestsFor(task llm.TaskType) []llm.GenerateRequest {
	var out []llm.GenerateRequest
	for _, r := range m.requests {
		if r.Task == task {
			out = append(out, r)
		}
	}
	return out
}

type recordingObserver struct {
	llm.NoopObserver
	fallbacks []llm.FallbackEvent
}

func (o *recordingObserver) OnFallback(e llm.FallbackEvent) { o.fallbacks = append(o.fallbacks, e) }
