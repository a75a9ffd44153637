package intelligence

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/pathway/internal/llm"
)

// ErrNothingToSimplify is returned for empty input content.
var ErrNothingToSimplify = errors.New("no content to simplify")

// SimplifyService rewrites chapter content at a simpler reading level.
type SimplifyService interface {
	Simplify(ctx context.Context, content, level string) (string, error)
}

type simplifyService struct {
	client llm.LLMClient
}

func NewSimplifyService(client llm.LLMClient) SimplifyService {
	return &simplifyService{client: client}
}

func (s *simplifyService) Simplify(ctx context.Context, content, level string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrNothingToSimplify
	}
	p := SimplifyPrompt(content, level)
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSimplify,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
	})
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.Text)
	if out == "" {
		return "", &MalformedResponseError{Kind: KindRewrite, Reason: "empty rewrite"}
	}
	return out, nil
}
