package export

import (
	"html/template"
	"io"

	"github.com/alexanderramin/pathway/internal/domain"
)

var funcs = template.FuncMap{
	"md":  func(s string) template.HTML { return template.HTML(MarkdownToHTML(s)) },
	"inc": func(i int) int { return i + 1 },
}

var (
	courseTmpl = template.Must(template.New("course").Funcs(funcs).Parse(courseHTML))
	lessonTmpl = template.Must(template.New("lesson").Funcs(funcs).Parse(lessonHTML))
)

type courseView struct {
	Course   *domain.Course
	Chapters []domain.Chapter
	Year     int
}

type lessonView struct {
	Lesson *domain.Lesson
	Level  string
}

func (e *Exporter) courseHTML(w io.Writer, c *domain.Course, chapters []domain.Chapter) error {
	return courseTmpl.Execute(w, courseView{Course: c, Chapters: chapters, Year: e.now().Year()})
}

func (e *Exporter) lessonHTML(w io.Writer, l *domain.Lesson) error {
	return lessonTmpl.Execute(w, lessonView{Lesson: l, Level: l.KnowledgeLevel.Label()})
}

const courseHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Course.Title}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 900px; margin: 0 auto; padding: 40px 20px; line-height: 1.8; color: #1f2937; background: linear-gradient(to bottom, #eff6ff, #ffffff); }
    h1 { color: #1e40af; font-size: 2.5em; margin-bottom: 10px; background: linear-gradient(to right, #2563eb, #7c3aed); -webkit-background-clip: text; -webkit-text-fill-color: transparent; background-clip: text; }
    h2 { color: #1e40af; border-bottom: 3px solid #93c5fd; padding-bottom: 10px; margin-top: 40px; font-size: 1.8em; }
    h3 { color: #1e3a8a; margin-top: 30px; font-size: 1.4em; }
    p { margin: 15px 0; }
    .subtitle { font-style: italic; font-size: 1.3em; color: #4b5563; margin-bottom: 20px; }
    .description { background: white; padding: 20px; border-left: 4px solid #3b82f6; margin: 30px 0; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .chapter { margin-bottom: 60px; page-break-after: always; background: white; padding: 30px; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
    .chapter-header { background: linear-gradient(to right, #3b82f6, #8b5cf6); color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
    .learning-objective { background: #dbeafe; padding: 15px; border-left: 4px solid #2563eb; margin: 20px 0; border-radius: 4px; }
    .content { margin: 25px 0; line-height: 1.9; }
    .key-term { background: #eff6ff; padding: 15px; margin: 15px 0; border-left: 4px solid #2563eb; border-radius: 4px; }
    .example { background: #f0fdf4; padding: 15px; margin: 15px 0; border-left: 4px solid #10b981; border-radius: 4px; }
    .try-it { background: #fef3c7; padding: 15px; margin: 15px 0; border-left: 4px solid #f59e0b; border-radius: 4px; }
    .tool-walkthrough { background: #faf5ff; padding: 20px; margin: 20px 0; border-left: 4px solid #7c3aed; border-radius: 4px; }
    .news-item { background: #fff7ed; padding: 15px; margin: 15px 0; border-left: 4px solid #f97316; border-radius: 4px; }
    code { background: #f3f4f6; padding: 2px 6px; border-radius: 3px; font-family: 'Courier New', monospace; font-size: 0.9em; }
    pre { background: #1f2937; color: #f3f4f6; padding: 15px; border-radius: 8px; overflow-x: auto; }
    pre code { background: transparent; color: inherit; }
    strong { color: #1f2937; }
    em { color: #4b5563; }
    ul, ol { margin: 15px 0; padding-left: 30px; }
    li { margin: 8px 0; }
    blockquote { border-left: 4px solid #d1d5db; padding-left: 20px; margin: 20px 0; color: #6b7280; font-style: italic; }
    a { color: #2563eb; text-decoration: none; }
    a:hover { text-decoration: underline; }
    @media print {
      body { background: white; }
      .chapter { box-shadow: none; border: 1px solid #e5e7eb; }
    }
  </style>
</head>
<body>
  <h1>{{.Course.Title}}</h1>
  <p class="subtitle">{{.Course.Subtitle}}</p>
  <div class="description">
    <p>{{md .Course.OverallDescription}}</p>
  </div>
  <hr style="border: none; border-top: 2px solid #e5e7eb; margin: 40px 0;">
{{range .Chapters}}
  <div class="chapter">
    <div class="chapter-header">
      <h2 style="color: white; border: none; margin: 0; padding: 0;">Chapter {{.ChapterNumber}}: {{.Title}}</h2>
    </div>

    <div class="learning-objective">
      <strong>📚 Learning Objective:</strong> {{.LearningObjective}}
    </div>

    <div class="content">
      {{md .Content}}
    </div>
{{if .KeyTerms}}
    <h3>🔑 Key Terms</h3>
{{range .KeyTerms}}
    <div class="key-term">
      <strong>{{or .Term "Term"}}:</strong> {{or .Definition "Definition"}}
    </div>
{{end}}{{end}}{{if .Examples}}
    <h3>💡 Real-World Examples</h3>
{{range $i, $ex := .Examples}}
    <div class="example">
      <strong>Example {{inc $i}}:</strong> {{md $ex}}
    </div>
{{end}}{{end}}{{if .TryItYourself}}
    <h3>🚀 Try It Yourself</h3>
{{range $i, $ex := .TryItYourself}}
    <div class="try-it">
      <strong>{{inc $i}}.</strong> {{md $ex}}
    </div>
{{end}}{{end}}{{with .ToolWalkthrough}}
    <h3>🛠️ Tool Walkthrough: {{or .ToolName "Tool Guide"}}</h3>
    <div class="tool-walkthrough">
      <p>{{.Description}}</p>
      <ol>
        {{range .Steps}}<li>{{md .}}</li>{{end}}
      </ol>
    </div>
{{end}}{{if .LatestUpdates}}
    <h3>📰 Latest Updates</h3>
{{range .LatestUpdates}}
    <div class="news-item">
      <strong><a href="{{.URL}}" target="_blank">{{.Headline}}</a></strong>
      <p>{{.Summary}}</p>
      <p style="font-size: 0.9em; color: #6b7280;">{{.Source}} | {{.Date}}</p>
    </div>
{{end}}{{end}}
  </div>
{{end}}
  <footer style="text-align: center; margin-top: 60px; padding-top: 20px; border-top: 2px solid #e5e7eb; color: #6b7280;">
    <p><strong>{{.Course.Title}}</strong></p>
    <p>Generated by AIPathway - Personalized AI Learning</p>
    <p>© {{.Year}}</p>
  </footer>
</body>
</html>
`

const lessonHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Lesson.Topic}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 900px; margin: 0 auto; padding: 40px 20px; line-height: 1.8; color: #1f2937; background: linear-gradient(to bottom, #eff6ff, #ffffff); }
    h1 { color: #F28C38; font-size: 2.5em; margin-bottom: 10px; }
    h2 { color: #1e40af; margin-top: 30px; border-bottom: 3px solid #3b82f6; padding-bottom: 10px; }
    h3 { color: #2563eb; margin-top: 20px; }
    .header { background: linear-gradient(135deg, #F28C38 0%, #F15A24 100%); color: white; padding: 40px; border-radius: 12px; margin-bottom: 30px; }
    .content { background: white; padding: 30px; border-radius: 12px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); margin-bottom: 20px; }
    .key-term { background: #dbeafe; padding: 15px; margin: 10px 0; border-left: 4px solid #3b82f6; border-radius: 4px; }
    .example { background: #d1fae5; padding: 15px; margin: 10px 0; border-left: 4px solid #10b981; border-radius: 4px; }
    .exercise { background: #f3e8ff; padding: 15px; margin: 10px 0; border-left: 4px solid #9333ea; border-radius: 4px; }
    .news-item { background: #fef3c7; padding: 20px; margin: 15px 0; border-left: 4px solid #f59e0b; border-radius: 4px; }
    .badge { display: inline-block; background: #3b82f6; color: white; padding: 5px 15px; border-radius: 20px; font-size: 0.9em; margin-bottom: 10px; }
    code { background: #f3f4f6; padding: 2px 6px; border-radius: 3px; font-family: monospace; }
    pre { background: #1f2937; color: #f9fafb; padding: 15px; border-radius: 8px; overflow-x: auto; }
  </style>
</head>
<body>
  <div class="header">
    <h1>{{.Lesson.Topic}}</h1>
    <div class="badge">{{.Level}}</div>
  </div>

  <div class="content">
    {{md .Lesson.Content}}
  </div>
{{with .Lesson.KeyTerms}}
  <div class="content">
    <h2>🔑 Key Terms</h2>
{{range .}}
    <div class="key-term">
      <strong>{{or .Term "Term"}}:</strong> {{.Definition}}
    </div>
{{end}}
  </div>
{{end}}{{with .Lesson.Examples}}
  <div class="content">
    <h2>💡 Examples</h2>
{{range $i, $ex := .}}
    <div class="example">
      <strong>Example {{inc $i}}:</strong> {{md $ex}}
    </div>
{{end}}
  </div>
{{end}}{{with .Lesson.PracticalExercises}}
  <div class="content">
    <h2>🚀 Practical Exercises</h2>
{{range $i, $ex := .}}
    <div class="exercise">
      <strong>{{inc $i}}.</strong> {{md $ex}}
    </div>
{{end}}
  </div>
{{end}}{{with .Lesson.LatestNews}}
  <div class="content">
    <h2>📰 Latest News &amp; Developments</h2>
{{range .}}
    <div class="news-item">
      <h3><a href="{{.URL}}" target="_blank" style="color: #ea580c; text-decoration: none;">{{.Headline}}</a></h3>
      <p>{{.Summary}}</p>
      <p style="font-size: 0.9em; color: #6b7280;">
        <strong>Source:</strong> {{.Source}} | <strong>Date:</strong> {{.Date}} | <a href="{{.URL}}" target="_blank" style="color: #2563eb;">Read more →</a>
      </p>
    </div>
{{end}}
  </div>
{{end}}
  <footer style="text-align: center; margin-top: 60px; padding-top: 20px; border-top: 2px solid #e5e7eb; color: #6b7280;">
    <p><strong>{{.Lesson.Topic}}</strong></p>
    <p>Generated by AIPathway</p>
  </footer>
</body>
</html>
`
