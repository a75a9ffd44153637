package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// JSONSchema names a strict JSON schema the response must satisfy.
type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// GenerateRequest holds the parameters for one completion call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64    // nil uses task default
	MaxTokens    *int        // nil uses task default
	Schema       *JSONSchema // nil requests plain text
}

// GenerateResponse holds the result of a completion call.
type GenerateResponse struct {
	Text      string
	Model     string
	CallID    string
	LatencyMs int64
}

// LLMClient provides access to a hosted language model.
type LLMClient interface {
	// Generate sends a prompt and returns the raw message content.
	// Each call is a single attempt bounded by the task timeout.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the API answers an authenticated request.
	Available(ctx context.Context) bool
}

// chatClient implements LLMClient against an OpenAI-compatible
// chat/completions endpoint.
type chatClient struct {
	cfg      LLMConfig
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
}

// NewChatClient creates an LLMClient for the configured endpoint.
func NewChatClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	c := &chatClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// chatRequest is the JSON body sent to POST /chat/completions.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *chatClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	callID := uuid.NewString()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	model := c.cfg.TaskModel(req.Task)

	body := chatRequest{
		Model:       model,
		Temperature: temp,
		MaxTokens:   maxTok,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.UserPrompt})
	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	resp, err := c.doRequest(callCtx, body)
	latency := time.Since(start).Milliseconds()
	if err == nil {
		c.observer.OnCallComplete(LLMCallEvent{
			CallID:    callID,
			Task:      req.Task,
			Model:     model,
			LatencyMs: latency,
			Success:   true,
		})
		respModel := resp.Model
		if respModel == "" {
			respModel = model
		}
		return &GenerateResponse{
			Text:      resp.Choices[0].Message.Content,
			Model:     respModel,
			CallID:    callID,
			LatencyMs: latency,
		}, nil
	}

	err = classify(ctx, callCtx, err, req.Task, timeoutMs)
	event := LLMCallEvent{
		CallID:    callID,
		Task:      req.Task,
		Model:     model,
		LatencyMs: latency,
		ErrorCode: errorCode(err),
	}
	var se *StatusError
	if errors.As(err, &se) {
		event.StatusCode = se.StatusCode
	}
	c.observer.OnCallComplete(event)
	return nil, err
}

func (c *chatClient) doRequest(ctx context.Context, body chatRequest) (*chatResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newStatusError(httpResp.StatusCode, respBody)
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: response has no message content", ErrInvalidOutput)
	}
	return &resp, nil
}

func (c *chatClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/models", nil)
	if err != nil {
		return false
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *chatClient) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

// classify maps a raw transport error onto the package's error taxonomy.
// A cancelled parent context is passed through untouched so callers can
// tell abandonment apart from a timeout.
func classify(parent, call context.Context, err error, task TaskType, timeoutMs int) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if call.Err() != nil {
		return fmt.Errorf("%w: %s after %dms", ErrTimeout, task, timeoutMs)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.StatusCode)
	default:
		return "UNKNOWN"
	}
}
