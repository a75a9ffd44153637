package intelligence

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/llm"
)

func outlineJSON(n int) string {
	chapters := make([]map[string]any, n)
	for i := range chapters {
		chapters[i] = map[string]any{
			"chapterNumber":     i + 1,
			"title":             "Chapter title " + string(rune('A'+i)),
			"learningObjective": "Objective",
		}
	}
	data, _ := json.Marshal(map[string]any{
		"title":              "GenAI for Finance",
		"subtitle":           "From prompts to agents",
		"overallDescription": "A practical course.",
		"chapters":           chapters,
	})
	return string(data)
}

func chapterJSON(title string) string {
	data, _ := json.Marshal(map[string]any{
		"chapterNumber":     99,
		"title":             title,
		"learningObjective": "Learn it",
		"content":           "## Intro\n\nBody text.",
		"keyTerms":          []map[string]string{{"term": "LLM", "definition": "Large language model"}},
		"examples":          []string{"Example one"},
		"tryItYourself":     []string{"Exercise one"},
		"toolWalkthrough":   map[string]any{"toolName": "ChatGPT", "description": "Chat", "steps": []string{"Open it"}},
	})
	return string(data)
}

func TestParseOutline_AcceptsNumericStringNumbers(t *testing.T) {
	raw := strings.Replace(outlineJSON(3), `"chapterNumber":2`, `"chapterNumber":"2"`, 1)
	out, err := ParseOutline(raw)
	require.NoError(t, err)

	require.Len(t, out.Chapters, 3)
	for i, s := range out.Chapters {
		assert.Equal(t, i+1, s.ChapterNumber)
	}
	assert.Equal(t, "GenAI for Finance", out.Title)
}

func TestParseOutline_RejectsBadNumbering(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		reason string
	}{
		{"missing", `"chapterNumber":1,`, ``, "chapter 1 has no usable chapterNumber"},
		{"not a number", `"chapterNumber":1`, `"chapterNumber":"one"`, "chapter 1 has no usable chapterNumber"},
		{"duplicate", `"chapterNumber":3`, `"chapterNumber":2`, "chapter 3 is numbered 2"},
		{"out of order", `"chapterNumber":1`, `"chapterNumber":4`, "chapter 1 is numbered 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Replace(outlineJSON(3), tt.from, tt.to, 1)
			require.NotEqual(t, outlineJSON(3), raw)

			_, err := ParseOutline(raw)
			var me *MalformedResponseError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, KindOutline, me.Kind)
			assert.Contains(t, me.Reason, tt.reason)
		})
	}
}

func TestParseOutline_FencedResponse(t *testing.T) {
	out, err := ParseOutline("```json\n" + outlineJSON(2) + "\n```")
	require.NoError(t, err)
	assert.Len(t, out.Chapters, 2)
}

func TestParseOutline_MissingFields(t *testing.T) {
	_, err := ParseOutline(`{"title":"Only a title"}`)

	var me *MalformedResponseError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindOutline, me.Kind)
	assert.Contains(t, me.Reason, "subtitle")
	assert.Contains(t, me.Reason, "chapters")
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestParseChapter_KeepsStubNumber(t *testing.T) {
	stub := domain.ChapterStub{ChapterNumber: 4, Title: "Stub", LearningObjective: "Obj"}
	ch, err := ParseChapter(chapterJSON("Prompting"), stub)
	require.NoError(t, err)

	assert.Equal(t, 4, ch.ChapterNumber)
	assert.Equal(t, "Prompting", ch.Title)
	assert.True(t, ch.Ready())
	require.NotNil(t, ch.ToolWalkthrough)
	assert.Equal(t, "ChatGPT", ch.ToolWalkthrough.ToolName)
}

func TestParseChapter_NullWalkthrough(t *testing.T) {
	raw := strings.Replace(chapterJSON("T"), `"toolWalkthrough":{"description":"Chat","steps":["Open it"],"toolName":"ChatGPT"}`, `"toolWalkthrough":null`, 1)
	ch, err := ParseChapter(raw, domain.ChapterStub{ChapterNumber: 1})
	require.NoError(t, err)
	assert.Nil(t, ch.ToolWalkthrough)
}

func TestParseChapter_FailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"not json", "Sorry, I cannot help with that.", "no JSON object"},
		{"empty content", `{"title":"T","learningObjective":"O","content":"  ","keyTerms":[],"examples":[],"tryItYourself":[]}`, "content"},
		{"missing lists", `{"title":"T","learningObjective":"O","content":"c"}`, "keyTerms, examples, tryItYourself"},
		{"incomplete term", `{"title":"T","learningObjective":"O","content":"c","keyTerms":[{"term":"x","definition":""}],"examples":[],"tryItYourself":[]}`, "key term 1"},
		{"wrong type", `{"title":"T","learningObjective":"O","content":"c","keyTerms":"none","examples":[],"tryItYourself":[]}`, "cannot unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChapter(tt.raw, domain.ChapterStub{ChapterNumber: 1})
			var me *MalformedResponseError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, KindChapter, me.Kind)
			assert.Contains(t, me.Reason, tt.reason)
			assert.True(t, IsMalformed(err))
		})
	}
}

func TestMalformedResponse_TruncatesRaw(t *testing.T) {
	raw := strings.Repeat("é", 400) // 800 bytes, no JSON
	_, err := ParseChapter(raw, domain.ChapterStub{ChapterNumber: 1})

	var me *MalformedResponseError
	require.ErrorAs(t, err, &me)
	assert.LessOrEqual(t, len(me.Raw), 500)
	assert.Equal(t, strings.Repeat("é", 250), me.Raw)
}

func TestParseLesson_UsesRequestedTopicAndLevel(t *testing.T) {
	raw := `{"topic":"something else","knowledgeLevel":"expert","content":"## RAG","keyTerms":[{"term":"RAG","definition":"Retrieval augmented generation"}],"examples":["e"],"practicalExercises":["p"]}`
	l, err := ParseLesson(raw, "RAG", domain.LevelBeginner)
	require.NoError(t, err)

	assert.Equal(t, "RAG", l.Topic)
	assert.Equal(t, domain.LevelBeginner, l.KnowledgeLevel)
	assert.NotNil(t, l.LatestNews)
}

func TestParseUpdates(t *testing.T) {
	raw := "Here you go:\n```json\n" + `{"newsItems":[{"headline":"A","summary":"s","source":"src","date":"2025","url":"https://a"},{"headline":"","summary":"dropped"}]}` + "\n```"
	items, err := ParseUpdates(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://a", items[0].URL)

	_, err = ParseUpdates("no news today")
	assert.True(t, IsMalformed(err))
}

func TestFallbackChapter(t *testing.T) {
	stub := domain.ChapterStub{ChapterNumber: 3, Title: "Agents", LearningObjective: "Build an agent"}
	ch := FallbackChapter(stub)

	assert.True(t, ch.Ready())
	assert.True(t, ch.Fallback)
	assert.Equal(t, 3, ch.ChapterNumber)
	assert.Contains(t, ch.Content, "## Agents")
	assert.Contains(t, ch.Content, "Build an agent")
	assert.NotNil(t, ch.KeyTerms)
	assert.Empty(t, ch.KeyTerms)
	assert.Empty(t, ch.Examples)
	assert.Empty(t, ch.TryItYourself)
	assert.Nil(t, ch.ToolWalkthrough)

	untitled := FallbackChapter(domain.ChapterStub{ChapterNumber: 7})
	assert.Equal(t, "Chapter 7", untitled.Title)
	assert.True(t, untitled.Ready())
}

func TestSchemas(t *testing.T) {
	s := OutlineSchema(10)
	assert.Equal(t, "course_outline", s.Name)
	assert.True(t, s.Strict)
	chapters := s.Schema["properties"].(map[string]any)["chapters"].(map[string]any)
	assert.Equal(t, 10, chapters["minItems"])
	assert.Equal(t, 10, chapters["maxItems"])

	c := ChapterSchema()
	assert.Equal(t, false, c.Schema["additionalProperties"])
	tw := c.Schema["properties"].(map[string]any)["toolWalkthrough"].(map[string]any)
	assert.Equal(t, []string{"object", "null"}, tw["type"])
	assert.NotContains(t, c.Schema["required"], "toolWalkthrough")

	assert.Equal(t, "lesson_content", LessonSchema().Name)
}
