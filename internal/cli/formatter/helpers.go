package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// StartedAgo describes when learning started, counted in whole days.
func StartedAgo(days int) string {
	switch {
	case days <= 0:
		return "Started today"
	case days == 1:
		return "Started yesterday"
	default:
		return fmt.Sprintf("Started %d days ago", days)
	}
}

// HumanDate formats t relative to now's calendar day.
func HumanDate(t, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// Bullets renders items as an indented list with the given marker.
func Bullets(items []string, marker string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "  %s %s\n", StylePurple.Render(marker), it)
	}
	return b.String()
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
