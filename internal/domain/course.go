package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type ToolWalkthrough struct {
	ToolName    string   `json:"toolName"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// LatestUpdate is one recent news item attached to a chapter or lesson.
type LatestUpdate struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}

// ChapterStub is an outline entry before its content is generated.
type ChapterStub struct {
	ChapterNumber     int    `json:"chapterNumber"`
	Title             string `json:"title"`
	LearningObjective string `json:"learningObjective"`
}

// CourseOutline is the skeleton returned by the outline stage.
type CourseOutline struct {
	Title              string        `json:"title"`
	Subtitle           string        `json:"subtitle"`
	OverallDescription string        `json:"overallDescription"`
	Chapters           []ChapterStub `json:"chapters"`
}

type Chapter struct {
	ChapterNumber     int              `json:"chapterNumber"`
	Title             string           `json:"title"`
	LearningObjective string           `json:"learningObjective"`
	Content           string           `json:"content"`
	KeyTerms          []KeyTerm        `json:"keyTerms"`
	Examples          []string         `json:"examples"`
	TryItYourself     []string         `json:"tryItYourself"`
	ToolWalkthrough   *ToolWalkthrough `json:"toolWalkthrough"`
	LatestUpdates     []LatestUpdate   `json:"latestUpdates"`
	Fallback          bool             `json:"fallback,omitempty"`
}

// Ready reports whether the chapter has content to show or export.
func (c Chapter) Ready() bool {
	return strings.TrimSpace(c.Content) != ""
}

// Stub returns the outline fields of the chapter.
func (c Chapter) Stub() ChapterStub {
	return ChapterStub{
		ChapterNumber:     c.ChapterNumber,
		Title:             c.Title,
		LearningObjective: c.LearningObjective,
	}
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := c
	out.KeyTerms = slices.Clone(c.KeyTerms)
	out.Examples = slices.Clone(c.Examples)
	out.TryItYourself = slices.Clone(c.TryItYourself)
	out.LatestUpdates = slices.Clone(c.LatestUpdates)
	if c.ToolWalkthrough != nil {
		tw := *c.ToolWalkthrough
		tw.Steps = slices.Clone(c.ToolWalkthrough.Steps)
		out.ToolWalkthrough = &tw
	}
	return out
}

// PendingChapter returns a not-yet-generated chapter for the stub.
func (s ChapterStub) PendingChapter() Chapter {
	return Chapter{
		ChapterNumber:     s.ChapterNumber,
		Title:             s.Title,
		LearningObjective: s.LearningObjective,
		KeyTerms:          []KeyTerm{},
		Examples:          []string{},
		TryItYourself:     []string{},
	}
}

// Course is the aggregate root of a generated curriculum.
type Course struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Subtitle           string      `json:"subtitle"`
	OverallDescription string      `json:"overallDescription"`
	GeneratedAt        time.Time   `json:"generatedAt"`
	UserProfile        UserProfile `json:"userProfile"`
	Chapters           []Chapter   `json:"chapters"`
}

// CourseID derives a course identifier from its creation time.
func CourseID(t time.Time) string {
	return fmt.Sprintf("course-%d", t.UnixMilli())
}

// NewCourse creates a course with one pending chapter per outline stub.
func NewCourse(outline CourseOutline, profile UserProfile, now time.Time) *Course {
	chapters := make([]Chapter, len(outline.Chapters))
	for i, stub := range outline.Chapters {
		chapters[i] = stub.PendingChapter()
	}
	return &Course{
		ID:                 CourseID(now),
		Title:              outline.Title,
		Subtitle:           outline.Subtitle,
		OverallDescription: outline.OverallDescription,
		GeneratedAt:        now.UTC(),
		UserProfile:        profile.Clone(),
		Chapters:           chapters,
	}
}

// Chapter returns the chapter with the given number.
func (c *Course) Chapter(number int) (Chapter, bool) {
	for _, ch := range c.Chapters {
		if ch.ChapterNumber == number {
			return ch, true
		}
	}
	return Chapter{}, false
}

// ReadyChapters returns the chapters with content, in course order.
func (c *Course) ReadyChapters() []Chapter {
	out := make([]Chapter, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		if ch.Ready() {
			out = append(out, ch)
		}
	}
	return out
}

func (c *Course) ReadyCount() int {
	n := 0
	for _, ch := range c.Chapters {
		if ch.Ready() {
			n++
		}
	}
	return n
}

// Complete reports whether every chapter has content.
func (c *Course) Complete() bool {
	return len(c.Chapters) > 0 && c.ReadyCount() == len(c.Chapters)
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.UserProfile = c.UserProfile.Clone()
	out.Chapters = make([]Chapter, len(c.Chapters))
	for i, ch := range c.Chapters {
		out.Chapters[i] = ch.Clone()
	}
	return &out
}

// Summary renders a shareable plain-text summary of the course.
func (c *Course) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", c.Title, c.Subtitle)
	fmt.Fprintf(&b, "Generated on: %s\n\n", c.GeneratedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Course Overview:\n%s\n\nChapters:\n", c.OverallDescription)
	for _, ch := range c.Chapters {
		fmt.Fprintf(&b, "%d. %s\n", ch.ChapterNumber, ch.Title)
	}
	b.WriteString("\n---\nCreated with AIPathway - Personalized AI Learning")
	return b.String()
}
