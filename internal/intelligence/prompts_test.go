package intelligence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/pathway/internal/domain"
)

func testProfile() domain.UserProfile {
	return domain.UserProfile{
		AIScore:          45,
		PersonaType:      domain.PersonaApplied,
		LearningFocus:    []string{"Use AI tools for productivity"},
		LearningStyle:    domain.StyleMixed,
		TimeCommitment:   "3-5 hours per week",
		Goals:            []string{"Use AI tools for productivity", "Lead AI initiatives at work"},
		CodingExperience: "basic",
		AIToolsUsed:      []string{"ChatGPT / Claude / Gemini"},
		Industry:         "Finance & Banking",
		AIMindset:        domain.MindsetFixed,
	}
}

func TestTechLevel_Bands(t *testing.T) {
	tests := []struct {
		score   int
		outline string
		chapter string
	}{
		{0, "beginner-friendly", "very beginner-friendly, avoiding jargon"},
		{29, "beginner-friendly", "very beginner-friendly, avoiding jargon"},
		{30, "introductory to intermediate", "introductory to intermediate"},
		{49, "introductory to intermediate", "introductory to intermediate"},
		{50, "intermediate to advanced", "intermediate to advanced"},
		{74, "intermediate to advanced", "intermediate to advanced"},
		{75, "advanced and technical", "advanced and technical"},
		{100, "advanced and technical", "advanced and technical"},
	}
	for _, tt := range tests {
		tier := domain.TierForScore(tt.score)
		assert.Equal(t, tt.outline, TechLevel(tier, StageOutline), "score %d", tt.score)
		assert.Equal(t, tt.chapter, TechLevel(tier, StageChapter), "score %d", tt.score)
	}
}

func TestOutlinePrompt(t *testing.T) {
	p := OutlinePrompt(testProfile(), 10)

	assert.Contains(t, p.System, "Generate a course outline with 10 chapter titles")
	assert.Contains(t, p.User, "Create a 10-chapter AI learning curriculum outline for someone with basic AI exposure")
	assert.Contains(t, p.User, "- AI Fluency Score: 45/100")
	assert.Contains(t, p.User, "- Technical level: introductory to intermediate")
	assert.Contains(t, p.User, "- Goals: Use AI tools for productivity, Lead AI initiatives at work")
	assert.Contains(t, p.User, "- Industry: Finance & Banking")
	assert.Contains(t, p.User, "amplifier of human skills")
	assert.Contains(t, p.User, "1. Generate exactly 10 chapter titles")
	assert.True(t, strings.HasSuffix(p.User, "and 10 chapters (number, title, objective)."))
}

func TestOutlinePrompt_DefaultsForSparseProfile(t *testing.T) {
	p := OutlinePrompt(domain.UserProfile{}, 3)

	assert.Contains(t, p.User, "- Industry: General")
	assert.Contains(t, p.User, "- Tools Used: None yet")
	assert.Contains(t, p.User, "- AI Mindset: exploring")
	assert.Contains(t, p.User, "- Technical level: beginner-friendly")
}

func TestOutlinePrompt_Deterministic(t *testing.T) {
	assert.Equal(t, OutlinePrompt(testProfile(), 3), OutlinePrompt(testProfile(), 3))
}

func TestChapterPrompt_WalkthroughCutoff(t *testing.T) {
	prof := testProfile()
	early := ChapterPrompt(domain.ChapterStub{ChapterNumber: 5, Title: "T", LearningObjective: "O"}, prof, "Course")
	late := ChapterPrompt(domain.ChapterStub{ChapterNumber: 6, Title: "T", LearningObjective: "O"}, prof, "Course")

	assert.Contains(t, early.User, "Include a practical tool walkthrough")
	assert.Contains(t, late.User, "Optional - include if relevant to the chapter")
}

func TestChapterPrompt_Content(t *testing.T) {
	stub := domain.ChapterStub{ChapterNumber: 2, Title: "Prompting", LearningObjective: "Write better prompts"}
	p := ChapterPrompt(stub, testProfile(), "AI at Work")

	assert.Equal(t, chapterSystemPrompt, p.System)
	assert.Contains(t, p.User, `You are creating Chapter 2 for the course "AI at Work".`)
	assert.Contains(t, p.User, "- Learning Objective: Write better prompts")
	assert.Contains(t, p.User, "600-800 words")
	assert.Contains(t, p.User, "3-5 important terms")
	assert.Contains(t, p.User, "2-3 real-world examples relevant to Finance & Banking")
	assert.Contains(t, p.User, "**Goal**: What you want | **Context**: Why/who | **Source**: What info | **Expectations**: How to respond")
	assert.Contains(t, p.User, "Combine explanations, analogies, and practical examples")
}

func TestChapterPrompt_NoIndustryClause(t *testing.T) {
	prof := testProfile()
	prof.Industry = ""
	p := ChapterPrompt(domain.ChapterStub{ChapterNumber: 1}, prof, "C")

	assert.Contains(t, p.User, "Give 2-3 real-world examples\n")
	assert.Contains(t, p.User, "- Industry: General")
}

func TestLessonPrompt_LevelFallback(t *testing.T) {
	p := LessonPrompt("RAG", "wizard")

	assert.Contains(t, p.User, "someone with basic understanding - build on foundational knowledge")
	assert.Contains(t, p.User, `"knowledgeLevel": "intermediate"`)
	assert.Contains(t, p.User, "400-600 word")
	assert.Equal(t, lessonSystemPrompt, p.System)
}

func TestSimplifyPrompt(t *testing.T) {
	p := SimplifyPrompt("## Heading\n\nBody", "")
	assert.Contains(t, p.User, "rewrite it to be "+DefaultSimplifyLevel)
	assert.Contains(t, p.User, "Original content:\n## Heading\n\nBody")

	p = SimplifyPrompt("x", "much shorter")
	assert.Contains(t, p.User, "clearer and much shorter")
}

func TestUpdatesPrompt(t *testing.T) {
	p := UpdatesPrompt("AI agents")
	assert.Contains(t, p.User, `about "AI agents". Find 3-5 recent articles.`)
	assert.Contains(t, p.User, `"newsItems"`)
}
