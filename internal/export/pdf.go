package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/alexanderramin/pathway/internal/domain"
)

const (
	pdfMargin = 20.0
	bannerMM  = 60.0
)

type rgb [3]int

var (
	colorBody    = rgb{31, 41, 55}
	colorMuted   = rgb{107, 114, 128}
	colorList    = rgb{55, 65, 81}
	colorHeading = rgb{30, 64, 175}
	colorTerms   = rgb{30, 64, 175}
	colorExample = rgb{22, 163, 74}
	colorTry     = rgb{147, 51, 234}
	colorTool    = rgb{124, 58, 237}
	colorNews    = rgb{245, 158, 11}
	colorLink    = rgb{37, 99, 235}
	colorBlack   = rgb{0, 0, 0}
)

// pdfDoc lays text out top to bottom on A4 pages, starting a new page when
// the next line would cross the bottom margin.
type pdfDoc struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	y            float64
	pageW, pageH float64
	maxW         float64
	images       int
}

func newPDFDoc(compress bool) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCompression(compress)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &pdfDoc{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		y:     pdfMargin,
		pageW: w,
		pageH: h,
		maxW:  w - 2*pdfMargin,
	}
}

func (d *pdfDoc) newPage() {
	d.pdf.AddPage()
	d.y = pdfMargin
}

// ensure starts a new page unless space mm fit above the bottom margin.
func (d *pdfDoc) ensure(space float64) {
	if d.y+space > d.pageH-pdfMargin {
		d.newPage()
	}
}

func (d *pdfDoc) gap(mm float64) { d.y += mm }

func (d *pdfDoc) style(size float64, style string, c rgb) {
	d.pdf.SetFont("Helvetica", style, size)
	d.pdf.SetTextColor(c[0], c[1], c[2])
}

// text writes s wrapped to the content width.
func (d *pdfDoc) text(s string, size float64, style string, c rgb) {
	s = latin1(s)
	if strings.TrimSpace(s) == "" {
		return
	}
	d.style(size, style, c)
	lineHeight := size * 0.5
	for _, line := range d.pdf.SplitLines([]byte(d.tr(s)), d.maxW) {
		d.ensure(lineHeight)
		d.pdf.Text(pdfMargin, d.y, string(line))
		d.y += lineHeight
	}
	d.y += lineHeight * 0.3
}

// paragraphs writes Markdown as plain paragraphs.
func (d *pdfDoc) paragraphs(md string, size float64, c rgb) {
	for _, para := range strings.Split(md, "\n\n") {
		clean := PlainText(para)
		if clean == "" {
			continue
		}
		d.text(clean, size, "", c)
		d.gap(3)
	}
}

// section writes a heading followed by one wrapped entry per item.
func (d *pdfDoc) section(title string, c rgb, items []string) {
	if len(items) == 0 {
		return
	}
	d.ensure(30)
	d.text(title, 14, "B", c)
	d.gap(5)
	for _, item := range items {
		d.ensure(20)
		d.text(item, 9, "", colorList)
		d.gap(3)
	}
	d.gap(8)
}

func (d *pdfDoc) centered(s string, y, size float64, style string, c rgb) {
	d.style(size, style, c)
	s = d.tr(latin1(s))
	w := d.pdf.GetStringWidth(s)
	d.pdf.Text((d.pageW-w)/2, y, s)
}

// banner places a full-width title image at the top of the current page.
func (d *pdfDoc) banner(title string, palette [2]color.RGBA) error {
	png, err := renderBanner(title, palette)
	if err != nil {
		return err
	}
	d.images++
	name := fmt.Sprintf("banner-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	d.pdf.ImageOptions(name, 0, 0, d.pageW, bannerMM, false, opts, 0, "")
	d.y = bannerMM + pdfMargin
	return nil
}

func (d *pdfDoc) footerPage(title, line string) {
	d.newPage()
	mid := d.pageH / 2
	d.centered(title, mid, 16, "B", colorHeading)
	d.centered(line, mid+15, 10, "", colorMuted)
}

func (d *pdfDoc) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func (e *Exporter) coursePDF(w io.Writer, c *domain.Course, chapters []domain.Chapter) error {
	d, err := e.buildCoursePDF(c, chapters)
	if err != nil {
		return err
	}
	return d.output(w)
}

func (e *Exporter) buildCoursePDF(c *domain.Course, chapters []domain.Chapter) (*pdfDoc, error) {
	d := newPDFDoc(e.compress)
	if err := d.banner(c.Title, courseBanner); err != nil {
		return nil, err
	}
	d.text(c.Subtitle, 12, "I", colorMuted)
	d.gap(5)
	d.paragraphs(c.OverallDescription, 10, colorBody)

	for _, ch := range chapters {
		d.newPage()
		d.text(fmt.Sprintf("Chapter %d: %s", ch.ChapterNumber, ch.Title), 16, "B", colorHeading)
		d.gap(2)
		d.text("Learning Objective: "+ch.LearningObjective, 11, "I", colorMuted)
		d.gap(6)
		d.paragraphs(ch.Content, 10, colorBody)
		d.gap(6)

		terms := make([]string, len(ch.KeyTerms))
		for i, t := range ch.KeyTerms {
			terms[i] = fmt.Sprintf("- %s: %s", t.Term, t.Definition)
		}
		d.section("Key Terms", colorTerms, terms)
		d.section("Real-World Examples", colorExample, numbered(ch.Examples))
		d.section("Try It Yourself", colorTry, numbered(ch.TryItYourself))
		if tw := ch.ToolWalkthrough; tw != nil {
			steps := numbered(tw.Steps)
			if tw.Description != "" {
				steps = append([]string{tw.Description}, steps...)
			}
			d.section("Tool Walkthrough: "+tw.ToolName, colorTool, steps)
		}
		d.news("Latest Updates", ch.LatestUpdates)
	}

	d.footerPage(c.Title, "Generated by AIPathway - Personalized AI Learning")
	return d, nil
}

func (e *Exporter) lessonPDF(w io.Writer, l *domain.Lesson) error {
	d, err := e.buildLessonPDF(l)
	if err != nil {
		return err
	}
	return d.output(w)
}

func (e *Exporter) buildLessonPDF(l *domain.Lesson) (*pdfDoc, error) {
	d := newPDFDoc(e.compress)
	if err := d.banner(l.Topic, lessonBanner); err != nil {
		return nil, err
	}
	d.text("Knowledge Level: "+l.KnowledgeLevel.Label(), 12, "I", colorMuted)
	d.gap(10)
	d.paragraphs(l.Content, 10, colorBody)
	d.gap(10)

	terms := make([]string, len(l.KeyTerms))
	for i, t := range l.KeyTerms {
		terms[i] = fmt.Sprintf("- %s: %s", t.Term, t.Definition)
	}
	d.section("Key Terms", colorTerms, terms)
	d.section("Examples", colorExample, numbered(l.Examples))
	d.section("Practical Exercises", colorTry, numbered(l.PracticalExercises))
	d.news("Latest News & Developments", l.LatestNews)

	d.footerPage(l.Topic, "Generated by AIPathway")
	return d, nil
}

func (d *pdfDoc) news(title string, items []domain.LatestUpdate) {
	if len(items) == 0 {
		return
	}
	d.ensure(30)
	d.text(title, 14, "B", colorNews)
	d.gap(5)
	for _, n := range items {
		d.ensure(30)
		d.text(n.Headline, 11, "B", colorBlack)
		d.gap(2)
		d.text(n.Summary, 9, "", colorList)
		d.gap(2)
		d.text(fmt.Sprintf("Source: %s | %s", n.Source, n.Date), 8, "I", colorMuted)
		d.gap(2)
		if n.URL != "" {
			d.text("Link: "+n.URL, 8, "", colorLink)
		}
		d.gap(5)
	}
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, PlainText(s))
	}
	return out
}

var typographic = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
	"…", "...", "•", "-",
	"→", "->",
)

// latin1 keeps the text printable by the core PDF fonts. Runes outside
// Latin-1 that have no ASCII stand-in are dropped.
func latin1(s string) string {
	s = typographic.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' {
			b.WriteByte(' ')
			continue
		}
		if r < 0x20 && r != '\n' {
			continue
		}
		if r <= 0xff {
			b.WriteRune(r)
		}
	}
	return b.String()
}
