package intelligence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/llm"
)

// ErrEmptyTopic is returned when a lesson is requested without a topic.
var ErrEmptyTopic = errors.New("lesson topic is required")

// LessonService generates standalone single-topic lessons.
type LessonService interface {
	Generate(ctx context.Context, topic string, level domain.KnowledgeLevel) (*domain.Lesson, error)
}

type lessonService struct {
	client   llm.LLMClient
	enricher Enricher
	now      func() time.Time
}

// NewLessonService creates a LessonService. Lessons are generated in one
// attempt and then enriched with recent news.
func NewLessonService(client llm.LLMClient, enricher Enricher) LessonService {
	if enricher == nil {
		enricher = NoEnricher{}
	}
	return &lessonService{client: client, enricher: enricher, now: time.Now}
}

func (s *lessonService) Generate(ctx context.Context, topic string, level domain.KnowledgeLevel) (*domain.Lesson, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	level = NormalizeLevel(level)

	p := LessonPrompt(topic, level)
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskLesson,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		Schema:       LessonSchema(),
	})
	if err != nil {
		return nil, err
	}
	lesson, err := ParseLesson(resp.Text, topic, level)
	if err != nil {
		return nil, err
	}
	lesson.LatestNews = s.enricher.LatestUpdates(ctx, topic)
	lesson.GeneratedAt = s.now().UTC()
	return &lesson, nil
}
