package testutil

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
)

// FixedTime is the reference clock for fixtures.
var FixedTime = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

type ProfileOption func(*domain.UserProfile)

func WithPersona(p domain.PersonaType) ProfileOption {
	return func(u *domain.UserProfile) { u.PersonaType = p }
}

func WithScore(score int) ProfileOption {
	return func(u *domain.UserProfile) { u.AIScore = score }
}

func WithIndustry(industry string) ProfileOption {
	return func(u *domain.UserProfile) { u.Industry = industry }
}

// NewTestProfile returns a valid applied-learner profile.
func NewTestProfile(opts ...ProfileOption) domain.UserProfile {
	p := domain.UserProfile{
		AIScore:          45,
		PersonaType:      domain.PersonaApplied,
		LearningFocus:    []string{"Use AI tools for productivity"},
		LearningStyle:    domain.StyleMixed,
		TimeCommitment:   "3-5 hours per week",
		Goals:            []string{"Use AI tools for productivity"},
		CodingExperience: "basic",
		AIToolsUsed:      []string{"ChatGPT / Claude / Gemini"},
		Industry:         "Finance & Banking",
		AIMindset:        domain.MindsetExploring,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// NewTestOutline returns an outline with n numbered stubs.
func NewTestOutline(n int) domain.CourseOutline {
	out := domain.CourseOutline{
		Title:              "GenAI at Work",
		Subtitle:           "Practical AI for finance teams",
		OverallDescription: "A hands-on path from first prompts to agents.",
		Chapters:           make([]domain.ChapterStub, n),
	}
	for i := range out.Chapters {
		out.Chapters[i] = domain.ChapterStub{
			ChapterNumber:     i + 1,
			Title:             fmt.Sprintf("Chapter %d Title", i+1),
			LearningObjective: fmt.Sprintf("Objective %d", i+1),
		}
	}
	return out
}

// ReadyChapter returns a generated chapter for a stub.
func ReadyChapter(stub domain.ChapterStub) domain.Chapter {
	ch := stub.PendingChapter()
	ch.Content = fmt.Sprintf("## %s\n\nThis is **chapter %d** content with a [link](https://example.com).", stub.Title, stub.ChapterNumber)
	ch.KeyTerms = []domain.KeyTerm{{Term: "LLM", Definition: "Large language model"}}
	ch.Examples = []string{"A bank summarises reports with an LLM."}
	ch.TryItYourself = []string{"**Goal**: Summarise | **Context**: Meeting prep | **Source**: Notes | **Expectations**: Bullets"}
	ch.ToolWalkthrough = &domain.ToolWalkthrough{ToolName: "ChatGPT", Description: "Chat assistant", Steps: []string{"Open ChatGPT", "Paste your notes"}}
	return ch
}

// NewTestCourse builds an n-chapter course where the listed chapter numbers
// are ready. With no numbers given every chapter is ready.
func NewTestCourse(n int, ready ...int) *domain.Course {
	outline := NewTestOutline(n)
	c := domain.NewCourse(outline, NewTestProfile(), FixedTime)
	all := len(ready) == 0
	readySet := map[int]bool{}
	for _, r := range ready {
		readySet[r] = true
	}
	for i, stub := range outline.Chapters {
		if all || readySet[stub.ChapterNumber] {
			c.Chapters[i] = ReadyChapter(stub)
		}
	}
	return c
}

// OutlineJSON renders an outline the way the completion API returns it.
func OutlineJSON(o domain.CourseOutline) string {
	data, _ := json.Marshal(o)
	return string(data)
}

// ChapterJSON renders generated chapter content for a stub.
func ChapterJSON(stub domain.ChapterStub) string {
	data, _ := json.Marshal(ReadyChapter(stub))
	return string(data)
}
