package intelligence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/llm"
)

// maxRawExcerpt bounds the raw text carried by a MalformedResponseError.
const maxRawExcerpt = 500

// Response kinds.
const (
	KindOutline = "outline"
	KindChapter = "chapter"
	KindLesson  = "lesson"
	KindUpdates = "updates"
	KindRewrite = "rewrite"
)

// MalformedResponseError reports a model response that could not be turned
// into the expected shape.
type MalformedResponseError struct {
	Kind   string
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return llm.ErrInvalidOutput }

func malformed(kind string, err error, raw string) *MalformedResponseError {
	reason := strings.TrimPrefix(err.Error(), llm.ErrInvalidOutput.Error()+": ")
	reason = strings.TrimPrefix(reason, "validation failed: ")
	return &MalformedResponseError{Kind: kind, Reason: reason, Raw: truncate(raw, maxRawExcerpt)}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type stubWire struct {
	ChapterNumber     json.RawMessage `json:"chapterNumber"`
	Title             string          `json:"title"`
	LearningObjective string          `json:"learningObjective"`
}

type outlineWire struct {
	Title              string     `json:"title"`
	Subtitle           string     `json:"subtitle"`
	OverallDescription string     `json:"overallDescription"`
	Chapters           []stubWire `json:"chapters"`
}

func validateOutline(w outlineWire) error {
	var missing []string
	if blank(w.Title) {
		missing = append(missing, "title")
	}
	if blank(w.Subtitle) {
		missing = append(missing, "subtitle")
	}
	if blank(w.OverallDescription) {
		missing = append(missing, "overallDescription")
	}
	if w.Chapters == nil {
		missing = append(missing, "chapters")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	for i, s := range w.Chapters {
		if blank(s.Title) || blank(s.LearningObjective) {
			return fmt.Errorf("chapter %d lacks a title or learning objective", i+1)
		}
		n, ok := stubNumber(s.ChapterNumber)
		if !ok {
			return fmt.Errorf("chapter %d has no usable chapterNumber", i+1)
		}
		if n != i+1 {
			return fmt.Errorf("chapter %d is numbered %d", i+1, n)
		}
	}
	return nil
}

// stubNumber reads a chapter number sent as a JSON number or a numeric
// string.
func stubNumber(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// ParseOutline decodes an outline. Stubs must be numbered 1..n in order;
// the caller checks the chapter count.
func ParseOutline(raw string) (domain.CourseOutline, error) {
	w, err := llm.ExtractJSON[outlineWire](raw, validateOutline)
	if err != nil {
		return domain.CourseOutline{}, malformed(KindOutline, err, raw)
	}
	out := domain.CourseOutline{
		Title:              strings.TrimSpace(w.Title),
		Subtitle:           strings.TrimSpace(w.Subtitle),
		OverallDescription: strings.TrimSpace(w.OverallDescription),
		Chapters:           make([]domain.ChapterStub, len(w.Chapters)),
	}
	for i, s := range w.Chapters {
		out.Chapters[i] = domain.ChapterStub{
			ChapterNumber:     i + 1,
			Title:             strings.TrimSpace(s.Title),
			LearningObjective: strings.TrimSpace(s.LearningObjective),
		}
	}
	return out, nil
}

type chapterWire struct {
	ChapterNumber     json.RawMessage         `json:"chapterNumber"`
	Title             string                  `json:"title"`
	LearningObjective string                  `json:"learningObjective"`
	Content           string                  `json:"content"`
	KeyTerms          []domain.KeyTerm        `json:"keyTerms"`
	Examples          []string                `json:"examples"`
	TryItYourself     []string                `json:"tryItYourself"`
	ToolWalkthrough   *domain.ToolWalkthrough `json:"toolWalkthrough"`
}

func validateChapter(w chapterWire) error {
	var missing []string
	if blank(w.Title) {
		missing = append(missing, "title")
	}
	if blank(w.LearningObjective) {
		missing = append(missing, "learningObjective")
	}
	if blank(w.Content) {
		missing = append(missing, "content")
	}
	if w.KeyTerms == nil {
		missing = append(missing, "keyTerms")
	}
	if w.Examples == nil {
		missing = append(missing, "examples")
	}
	if w.TryItYourself == nil {
		missing = append(missing, "tryItYourself")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return validateKeyTerms(w.KeyTerms)
}

func validateKeyTerms(terms []domain.KeyTerm) error {
	for i, kt := range terms {
		if blank(kt.Term) || blank(kt.Definition) {
			return fmt.Errorf("key term %d is incomplete", i+1)
		}
	}
	return nil
}

// ParseChapter decodes generated chapter content for a stub. The chapter
// keeps the stub's number.
func ParseChapter(raw string, stub domain.ChapterStub) (domain.Chapter, error) {
	w, err := llm.ExtractJSON[chapterWire](raw, validateChapter)
	if err != nil {
		return domain.Chapter{}, malformed(KindChapter, err, raw)
	}
	ch := domain.Chapter{
		ChapterNumber:     stub.ChapterNumber,
		Title:             strings.TrimSpace(w.Title),
		LearningObjective: strings.TrimSpace(w.LearningObjective),
		Content:           w.Content,
		KeyTerms:          w.KeyTerms,
		Examples:          w.Examples,
		TryItYourself:     w.TryItYourself,
	}
	if tw := w.ToolWalkthrough; tw != nil && !blank(tw.ToolName) {
		if tw.Steps == nil {
			tw.Steps = []string{}
		}
		ch.ToolWalkthrough = tw
	}
	return ch, nil
}

type lessonWire struct {
	Topic              string           `json:"topic"`
	KnowledgeLevel     string           `json:"knowledgeLevel"`
	Content            string           `json:"content"`
	KeyTerms           []domain.KeyTerm `json:"keyTerms"`
	Examples           []string         `json:"examples"`
	PracticalExercises []string         `json:"practicalExercises"`
}

func validateLesson(w lessonWire) error {
	var missing []string
	if blank(w.Content) {
		missing = append(missing, "content")
	}
	if w.KeyTerms == nil {
		missing = append(missing, "keyTerms")
	}
	if w.Examples == nil {
		missing = append(missing, "examples")
	}
	if w.PracticalExercises == nil {
		missing = append(missing, "practicalExercises")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return validateKeyTerms(w.KeyTerms)
}

// ParseLesson decodes a one-off lesson. Topic and level come from the
// request, not the response.
func ParseLesson(raw, topic string, level domain.KnowledgeLevel) (domain.Lesson, error) {
	w, err := llm.ExtractJSON[lessonWire](raw, validateLesson)
	if err != nil {
		return domain.Lesson{}, malformed(KindLesson, err, raw)
	}
	return domain.Lesson{
		Topic:              topic,
		KnowledgeLevel:     level,
		Content:            w.Content,
		KeyTerms:           w.KeyTerms,
		Examples:           w.Examples,
		PracticalExercises: w.PracticalExercises,
		LatestNews:         []domain.LatestUpdate{},
	}, nil
}

type updatesWire struct {
	NewsItems []domain.LatestUpdate `json:"newsItems"`
}

// ParseUpdates decodes a news list, dropping items without a headline.
func ParseUpdates(raw string) ([]domain.LatestUpdate, error) {
	w, err := llm.ExtractJSON[updatesWire](raw, nil)
	if err != nil {
		return nil, malformed(KindUpdates, err, raw)
	}
	out := make([]domain.LatestUpdate, 0, len(w.NewsItems))
	for _, item := range w.NewsItems {
		if blank(item.Headline) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
