package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/pathway/internal/llm"
)

// FakeReply is one scripted completion result.
type FakeReply struct {
	Text  string
	Err   error
	Delay time.Duration
}

// FakeLLMClient replays scripted replies per task. When a task's queue is
// exhausted the last reply repeats; a task with no script returns
// llm.ErrUnavailable.
type FakeLLMClient struct {
	mu       sync.Mutex
	scripts  map[llm.TaskType][]FakeReply
	requests []llm.GenerateRequest
}

func NewFakeLLMClient() *FakeLLMClient {
	return &FakeLLMClient{scripts: map[llm.TaskType][]FakeReply{}}
}

// Script appends replies for a task.
func (f *FakeLLMClient) Script(task llm.TaskType, replies ...FakeReply) *FakeLLMClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[task] = append(f.scripts[task], replies...)
	return f
}

func (f *FakeLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	queue := f.scripts[req.Task]
	var reply FakeReply
	switch len(queue) {
	case 0:
		reply = FakeReply{Err: llm.ErrUnavailable}
	case 1:
		reply = queue[0]
	default:
		reply = queue[0]
		f.scripts[req.Task] = queue[1:]
	}
	f.mu.Unlock()

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &llm.GenerateResponse{Text: reply.Text, Model: "fake"}, nil
}

func (f *FakeLLMClient) Available(context.Context) bool { return true }

// Calls counts requests made for a task.
func (f *FakeLLMClient) Calls(task llm.TaskType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Task == task {
			n++
		}
	}
	return n
}

// Requests returns a copy of every recorded request.
func (f *FakeLLMClient) Requests() []llm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.GenerateRequest(nil), f.requests...)
}
