package intelligence

import (
	"context"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/llm"
)

// CourseGenerator makes single outline and chapter requests. Retries and
// fallbacks belong to the caller.
type CourseGenerator interface {
	// GenerateOutline requests an outline of n chapters.
	GenerateOutline(ctx context.Context, profile domain.UserProfile, n int) (domain.CourseOutline, error)

	// GenerateChapter requests the content for one outline stub.
	GenerateChapter(ctx context.Context, stub domain.ChapterStub, profile domain.UserProfile, courseTitle string) (domain.Chapter, error)
}

type courseGenerator struct {
	client   llm.LLMClient
	enricher Enricher
}

// NewCourseGenerator creates a CourseGenerator. A nil enricher disables
// chapter news enrichment.
func NewCourseGenerator(client llm.LLMClient, enricher Enricher) CourseGenerator {
	if enricher == nil {
		enricher = NoEnricher{}
	}
	return &courseGenerator{client: client, enricher: enricher}
}

func (g *courseGenerator) GenerateOutline(ctx context.Context, profile domain.UserProfile, n int) (domain.CourseOutline, error) {
	p := OutlinePrompt(profile, n)
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskOutline,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		Schema:       OutlineSchema(n),
	})
	if err != nil {
		return domain.CourseOutline{}, err
	}
	return ParseOutline(resp.Text)
}

func (g *courseGenerator) GenerateChapter(ctx context.Context, stub domain.ChapterStub, profile domain.UserProfile, courseTitle string) (domain.Chapter, error) {
	p := ChapterPrompt(stub, profile, courseTitle)
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskChapter,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		Schema:       ChapterSchema(),
	})
	if err != nil {
		return domain.Chapter{}, err
	}
	ch, err := ParseChapter(resp.Text, stub)
	if err != nil {
		return domain.Chapter{}, err
	}
	ch.LatestUpdates = g.enricher.LatestUpdates(ctx, ch.Title)
	return ch, nil
}
