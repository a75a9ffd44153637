package intelligence

import (
	"context"
	"sync"

	"github.com/alexanderramin/pathway/internal/llm"
)

// mockLLMClient returns scripted responses per task and records requests.
type mockLLMClient struct {
	mu        sync.Mutex
	responses map[llm.TaskType]string
	errs      map[llm.TaskType]error
	requests  []llm.GenerateRequest
}

func newMock() *mockLLMClient {
	return &mockLLMClient{
		responses: map[llm.TaskType]string{},
		errs:      map[llm.TaskType]error{},
	}
}

func (m *mockLLMClient) on(task llm.TaskType, response string) *mockLLMClient {
	m.responses[task] = response
	return m
}

func (m *mockLLMClient) fail(task llm.TaskType, err error) *mockLLMClient {
	m.errs[task] = err
	return m
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if err := m.errs[req.Task]; err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Text: m.responses[req.Task], Model: "mock"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return true }

func (m *mockLLMClient) requestsFor(task llm.TaskType) []llm.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []llm.GenerateRequest
	for _, r := range m.requests {
		if r.Task == task {
			out = append(out, r)
		}
	}
	return out
}
