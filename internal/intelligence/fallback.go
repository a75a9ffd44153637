package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pathway/internal/domain"
)

// FallbackChapter synthesizes placeholder content for a stub whose
// generation failed, so the course always has every chapter.
func FallbackChapter(stub domain.ChapterStub) domain.Chapter {
	ch := stub.PendingChapter()
	title := strings.TrimSpace(stub.Title)
	if title == "" {
		title = fmt.Sprintf("Chapter %d", stub.ChapterNumber)
		ch.Title = title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if obj := strings.TrimSpace(stub.LearningObjective); obj != "" {
		fmt.Fprintf(&b, "**Learning objective:** %s\n\n", obj)
	}
	b.WriteString("The detailed content for this chapter could not be generated right now. ")
	b.WriteString("Start a fresh generation later to try again, or explore the objective above ")
	b.WriteString("with an AI assistant such as ChatGPT or Claude.")

	ch.Content = b.String()
	ch.Fallback = true
	return ch
}
