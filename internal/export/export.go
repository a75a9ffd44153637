// Package export renders courses and lessons as standalone HTML and PDF
// documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
)

var (
	ErrNoCourse = errors.New("no course to export")
	// ErrNoContent blocks an export while no chapter has content yet.
	ErrNoContent      = errors.New("please wait for chapters to finish generating before exporting")
	ErrExportDeclined = errors.New("export cancelled")
	ErrUnknownFormat  = errors.New("unknown export format")
)

// ConfirmFunc decides whether to export when only included of total chapters
// have content.
type ConfirmFunc func(included, total int) bool

// AlwaysConfirm accepts partial exports.
func AlwaysConfirm(int, int) bool { return true }

// PartialPrompt is the question put to the learner before a partial export.
func PartialPrompt(included, total int) string {
	return fmt.Sprintf("Only %d of %d chapters have content. Export anyway?", included, total)
}

// Exporter writes course and lesson documents.
type Exporter struct {
	now      func() time.Time
	compress bool
}

func New() *Exporter {
	return &Exporter{now: time.Now, compress: true}
}

// ReadyChapters applies the export gate: nothing ready is an error, and a
// partial course needs confirm to agree.
func ReadyChapters(c *domain.Course, confirm ConfirmFunc) ([]domain.Chapter, error) {
	if c == nil {
		return nil, ErrNoCourse
	}
	ready := c.ReadyChapters()
	if len(ready) == 0 {
		return nil, ErrNoContent
	}
	if len(ready) < len(c.Chapters) {
		if confirm == nil || !confirm(len(ready), len(c.Chapters)) {
			return nil, ErrExportDeclined
		}
	}
	return ready, nil
}

// Course writes the course in the given format. It returns the suggested
// file name.
func (e *Exporter) Course(w io.Writer, c *domain.Course, f Format, confirm ConfirmFunc) (string, error) {
	chapters, err := ReadyChapters(c, confirm)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	switch f {
	case FormatHTML:
		err = e.courseHTML(&buf, c, chapters)
	case FormatPDF:
		err = e.coursePDF(&buf, c, chapters)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", f, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return FileName(c.Title, f), nil
}

// Lesson writes a one-off lesson in the given format.
func (e *Exporter) Lesson(w io.Writer, l *domain.Lesson, f Format) (string, error) {
	if l == nil {
		return "", ErrNoContent
	}
	var (
		buf bytes.Buffer
		err error
	)
	switch f {
	case FormatHTML:
		err = e.lessonHTML(&buf, l)
	case FormatPDF:
		err = e.lessonPDF(&buf, l)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", f, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return FileName(l.Topic, f), nil
}
