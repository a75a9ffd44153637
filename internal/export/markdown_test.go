package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"headings", "# One\n## Two\n### Three", "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>"},
		{"bold before italic", "**bold** and *soft*", "<strong>bold</strong> and <em>soft</em>"},
		{"code block keeps newlines", "```go\nx := 1\n```", "<pre><code>go\nx := 1\n</code></pre>"},
		{"inline code", "run `pathway generate` now", "run <code>pathway generate</code> now"},
		{"link", "see [docs](https://example.com)", `see <a href="https://example.com" target="_blank">docs</a>`},
		{"list wrapped once", "* a\n* b", "<ul><li>a</li>\n<li>b</li></ul>"},
		{"paragraphs", "first\n\nsecond", "first</p><p>second"},
		{"blockquote", "> wise words", "<blockquote>wise words</blockquote>"},
		{"plain text untouched", "nothing to do", "nothing to do"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToHTML(tt.in))
		})
	}
}

func TestMarkdownToHTML_OnlyFirstListSpanIsWrapped(t *testing.T) {
	// The greedy span runs from the first <li> to the last </li>.
	got := MarkdownToHTML("* a\n\ntext\n\n* b")
	assert.Equal(t, "<ul><li>a</li></p><p>text</p><p><li>b</li></ul>", got)
}

func TestMarkdownToHTML_OrderIsSignificant(t *testing.T) {
	// Headings are converted before emphasis, so emphasis inside a heading
	// still renders.
	assert.Equal(t, "<h2><strong>Key</strong> idea</h2>", MarkdownToHTML("## **Key** idea"))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title", PlainText("## Title"))
	assert.Equal(t, "bold and code", PlainText("**bold** and `code`"))
	assert.Equal(t, "read the docs now", PlainText("read the [docs](https://example.com) now"))
}
