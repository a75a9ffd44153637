package export

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// markdownRules run in order. The list is part of the export format: do not
// reorder or extend it.
var markdownRules = []rule{
	{regexp.MustCompile(`(?mi)^### (.*$)`), `<h3>${1}</h3>`},
	{regexp.MustCompile(`(?mi)^## (.*$)`), `<h2>${1}</h2>`},
	{regexp.MustCompile(`(?mi)^# (.*$)`), `<h1>${1}</h1>`},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong>${1}</strong>`},
	{regexp.MustCompile(`\*(.*?)\*`), `<em>${1}</em>`},
	{regexp.MustCompile("(?s)```(.*?)```"), `<pre><code>${1}</code></pre>`},
	{regexp.MustCompile("`(.*?)`"), `<code>${1}</code>`},
	{regexp.MustCompile(`\[(.*?)\]\((.*?)\)`), `<a href="${2}" target="_blank">${1}</a>`},
	{regexp.MustCompile(`(?mi)^\* (.*$)`), `<li>${1}</li>`},
}

var (
	// Only the first span is wrapped.
	listSpan      = regexp.MustCompile(`(?s)(<li>.*</li>)`)
	blockquoteRE  = regexp.MustCompile(`(?mi)^> (.*$)`)
	paragraphStop = "\n\n"
)

// MarkdownToHTML converts the Markdown subset produced by the generator.
// Input is not escaped.
func MarkdownToHTML(md string) string {
	out := md
	for _, r := range markdownRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	if loc := listSpan.FindStringIndex(out); loc != nil {
		out = out[:loc[0]] + "<ul>" + out[loc[0]:loc[1]] + "</ul>" + out[loc[1]:]
	}
	out = strings.ReplaceAll(out, paragraphStop, "</p><p>")
	return blockquoteRE.ReplaceAllString(out, `<blockquote>${1}</blockquote>`)
}

var (
	mdTokens = regexp.MustCompile("[#*`]")
	mdLinks  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// PlainText strips Markdown tokens and reduces links to their text.
func PlainText(md string) string {
	return strings.TrimSpace(mdLinks.ReplaceAllString(mdTokens.ReplaceAllString(md, ""), "${1}"))
}
