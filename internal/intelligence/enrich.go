package intelligence

import (
	"context"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/llm"
	"github.com/alexanderramin/pathway/internal/logger"
)

// Enricher looks up recent news for a topic. It never fails: any error
// yields an empty list.
type Enricher interface {
	LatestUpdates(ctx context.Context, topic string) []domain.LatestUpdate
}

type updatesEnricher struct {
	client llm.LLMClient
	log    *logger.Logger
}

// NewEnricher creates an Enricher backed by a web-search-capable model.
func NewEnricher(client llm.LLMClient, log *logger.Logger) Enricher {
	if log == nil {
		log = logger.Nop()
	}
	return &updatesEnricher{client: client, log: log}
}

func (e *updatesEnricher) LatestUpdates(ctx context.Context, topic string) []domain.LatestUpdate {
	p := UpdatesPrompt(topic)
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEnrich,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
	})
	if err != nil {
		e.log.Debug("latest updates unavailable", "topic", topic, "error", err)
		return []domain.LatestUpdate{}
	}
	items, err := ParseUpdates(resp.Text)
	if err != nil {
		e.log.Debug("latest updates unparseable", "topic", topic, "error", err)
		return []domain.LatestUpdate{}
	}
	return items
}

// NoEnricher skips enrichment.
type NoEnricher struct{}

func (NoEnricher) LatestUpdates(context.Context, string) []domain.LatestUpdate {
	return []domain.LatestUpdate{}
}
