package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/profile"
)

const courseProgressBarWidth = 24

// FormatPersonas lists the preset learner archetypes.
func FormatPersonas(presets []profile.Preset) string {
	headers := []string{"ID", "PERSONA", "AI SCORE", "FOCUS"}
	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, []string{
			StylePurple.Render(string(p.Type)),
			p.Icon + " " + Bold(p.Title),
			fmt.Sprintf("%d %s", p.Profile.AIScore, Dim("("+profile.ScoreLevel(p.Profile.AIScore).Level+")")),
			p.Description,
		})
	}
	return RenderTable(headers, rows)
}

// FormatProfile summarizes a learner profile before generation.
func FormatProfile(p domain.UserProfile, chapters int) string {
	band := profile.ScoreLevel(p.AIScore)
	icon, style := profile.StyleInfo(p.LearningStyle)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Bold(profile.PersonaDescription(p.PersonaType)))
	fmt.Fprintf(&b, "AI fluency   %d/100 %s\n", p.AIScore, Dim(band.Level+" - "+band.Description))
	fmt.Fprintf(&b, "Style        %s %s\n", icon, style)
	fmt.Fprintf(&b, "Commitment   %s %s\n", p.TimeCommitment,
		Dim("(about "+profile.EstimateCompletionTime(chapters, p.TimeCommitment)+" for "+strconv.Itoa(chapters)+" chapters)"))
	if p.Industry != "" {
		fmt.Fprintf(&b, "Industry     %s\n", p.Industry)
	}
	if len(p.Goals) > 0 {
		fmt.Fprintf(&b, "Goals\n%s", Bullets(p.Goals, "•"))
	}
	if len(p.AIToolsUsed) > 0 {
		fmt.Fprintf(&b, "Tools used   %s\n", strings.Join(p.AIToolsUsed, ", "))
	}
	return RenderBox("Your learning profile", strings.TrimRight(b.String(), "\n"))
}

func chapterState(ch domain.Chapter, p *domain.Progress) ChapterState {
	switch {
	case p != nil && p.IsCompleted(ch.ChapterNumber):
		return ChapterCompleted
	case ch.Fallback:
		return ChapterPlaceholder
	case ch.Ready():
		return ChapterReady
	default:
		return ChapterPending
	}
}

// FormatCourse renders the course dashboard: progress, chapter list and
// earned achievements. p may be nil while the course is being generated.
func FormatCourse(c *domain.Course, p *domain.Progress, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(c.Title))
	b.WriteString("\n")
	if c.Subtitle != "" {
		b.WriteString(StyleFg.Render(c.Subtitle) + "\n")
	}
	if c.OverallDescription != "" {
		b.WriteString(Dim(c.OverallDescription) + "\n")
	}
	b.WriteString("\n")

	total := len(c.Chapters)
	if p != nil {
		done := len(p.CompletedChapters)
		fmt.Fprintf(&b, "%s  %d of %d chapters complete\n", RenderProgress(p.Percent(total), courseProgressBarWidth), done, total)
		fmt.Fprintf(&b, "%s\n\n", Dim(StartedAgo(p.DaysSinceStart(now))))
	} else if ready := c.ReadyCount(); ready < total {
		fmt.Fprintf(&b, "%s\n\n", StyleYellow.Render(fmt.Sprintf("Still generating: %d of %d chapters ready", ready, total)))
	}

	rows := make([][]string, 0, total)
	for _, ch := range c.Chapters {
		marker := " "
		if p != nil && p.CurrentChapter == ch.ChapterNumber {
			marker = StyleHeader.Render("▶")
		}
		rows = append(rows, []string{
			marker + " " + strconv.Itoa(ch.ChapterNumber),
			ch.Title,
			ChapterBadge(chapterState(ch, p)),
		})
	}
	b.WriteString(RenderTable([]string{"  #", "CHAPTER", "STATUS"}, rows))

	if p != nil {
		if earned := domain.Achievements(len(p.CompletedChapters)); len(earned) > 0 {
			b.WriteString("\n" + FormatAchievements(earned))
		}
	}
	return b.String()
}

// FormatAchievements renders earned badges on one line.
func FormatAchievements(earned []domain.Achievement) string {
	parts := make([]string, len(earned))
	for i, a := range earned {
		parts[i] = a.Icon + " " + StyleYellow.Render(a.Title)
	}
	return Bold("Achievements") + "  " + strings.Join(parts, "   ") + "\n"
}

// FormatChapter renders a chapter for reading in the terminal.
func FormatChapter(ch domain.Chapter, total int, completed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("Chapter %d of %d", ch.ChapterNumber, total)))
	b.WriteString(Header(ch.Title) + "\n")
	if ch.LearningObjective != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleBlue.Render("Objective:"), ch.LearningObjective)
	}
	if completed {
		b.WriteString(ChapterBadge(ChapterCompleted) + "\n")
	}
	if !ch.Ready() {
		b.WriteString("\n" + Dim("This chapter has not been generated yet.") + "\n")
		return b.String()
	}
	if ch.Fallback {
		b.WriteString(StyleYellow.Render("Placeholder content: generation failed for this chapter.") + "\n")
	}

	b.WriteString("\n" + RenderMarkdown(ch.Content) + "\n")

	if len(ch.KeyTerms) > 0 {
		b.WriteString("\n" + Header("Key terms") + "\n")
		for _, kt := range ch.KeyTerms {
			fmt.Fprintf(&b, "  %s  %s\n", Bold(kt.Term), kt.Definition)
		}
	}
	if len(ch.Examples) > 0 {
		b.WriteString("\n" + Header("Real-world examples") + "\n")
		b.WriteString(Bullets(plain(ch.Examples), "•"))
	}
	if len(ch.TryItYourself) > 0 {
		b.WriteString("\n" + Header("Try it yourself") + "\n")
		b.WriteString(numbered(plain(ch.TryItYourself)))
	}
	if tw := ch.ToolWalkthrough; tw != nil {
		b.WriteString("\n" + Header("Tool walkthrough: "+tw.ToolName) + "\n")
		if tw.Description != "" {
			b.WriteString(Dim(tw.Description) + "\n")
		}
		b.WriteString(numbered(plain(tw.Steps)))
	}
	if len(ch.LatestUpdates) > 0 {
		b.WriteString("\n" + formatUpdates("Latest updates", ch.LatestUpdates))
	}
	return b.String()
}

// FormatLesson renders a one-off lesson.
func FormatLesson(l *domain.Lesson) string {
	var b strings.Builder
	b.WriteString(Header(l.Topic) + "\n")
	fmt.Fprintf(&b, "%s\n\n", Dim("Level: "+l.KnowledgeLevel.Label()))
	b.WriteString(RenderMarkdown(l.Content) + "\n")
	if len(l.KeyTerms) > 0 {
		b.WriteString("\n" + Header("Key terms") + "\n")
		for _, kt := range l.KeyTerms {
			fmt.Fprintf(&b, "  %s  %s\n", Bold(kt.Term), kt.Definition)
		}
	}
	if len(l.Examples) > 0 {
		b.WriteString("\n" + Header("Examples") + "\n")
		b.WriteString(Bullets(plain(l.Examples), "•"))
	}
	if len(l.PracticalExercises) > 0 {
		b.WriteString("\n" + Header("Practical exercises") + "\n")
		b.WriteString(numbered(plain(l.PracticalExercises)))
	}
	if len(l.LatestNews) > 0 {
		b.WriteString("\n" + formatUpdates("Latest news", l.LatestNews))
	}
	return b.String()
}

func formatUpdates(title string, updates []domain.LatestUpdate) string {
	var b strings.Builder
	b.WriteString(Header(title) + "\n")
	for _, u := range updates {
		fmt.Fprintf(&b, "  %s\n", Bold(u.Headline))
		if u.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", u.Summary)
		}
		meta := strings.TrimSpace(strings.Join([]string{u.Source, u.Date}, " "))
		if u.URL != "" {
			meta = strings.TrimSpace(meta + " " + u.URL)
		}
		if meta != "" {
			fmt.Fprintf(&b, "  %s\n", Dim(meta))
		}
	}
	return b.String()
}

// RenderMarkdown turns chapter Markdown into styled terminal text: headings
// are highlighted, list items get bullets and inline markup is stripped.
func RenderMarkdown(md string) string {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, StyleHeader.Render(export.PlainText(strings.TrimLeft(trimmed, "# "))))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, "  "+StylePurple.Render("•")+" "+export.PlainText(trimmed[2:]))
		case strings.HasPrefix(trimmed, ">"):
			out = append(out, StyleDim.Render("│ "+export.PlainText(strings.TrimLeft(trimmed, "> "))))
		default:
			out = append(out, export.PlainText(line))
		}
	}
	return strings.Join(out, "\n")
}

func plain(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = export.PlainText(it)
	}
	return out
}

func numbered(items []string) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "  %s %s\n", StylePurple.Render(strconv.Itoa(i+1)+"."), it)
	}
	return b.String()
}
