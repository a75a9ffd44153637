package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/pathway/internal/cli/formatter"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/intelligence"
)

// formatFlag is a --format value restricted to the export formats.
type formatFlag struct {
	format export.Format
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(f.format) }

func (f *formatFlag) Set(s string) error {
	v, ok := export.ParseFormat(s)
	if !ok {
		return fmt.Errorf("%w %q, use html or pdf", export.ErrUnknownFormat, s)
	}
	f.format = v
	return nil
}

func (f *formatFlag) Type() string { return "html|pdf" }

// writeDocument renders into memory first so a failed export leaves no
// partial file behind.
func writeDocument(dir string, render func(*bytes.Buffer) (string, error)) (string, error) {
	var buf bytes.Buffer
	name, err := render(&buf)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func newExportCmd(app *App) *cobra.Command {
	format := &formatFlag{format: export.FormatHTML}
	var (
		outDir string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the course as HTML or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadCourse(cmd.Context(), app)
			if err != nil {
				return err
			}

			var promptErr error
			confirm := func(included, total int) bool {
				if yes {
					return true
				}
				ok, err := app.confirm(cmd.Context(), export.PartialPrompt(included, total))
				promptErr = err
				return ok
			}

			path, err := writeDocument(outDir, func(buf *bytes.Buffer) (string, error) {
				return app.Exporter.Course(buf, snap.Course, format.format, confirm)
			})
			if promptErr != nil {
				return promptErr
			}
			if errors.Is(err, export.ErrExportDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Export cancelled. Pass --yes to export the chapters that are ready.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %s\n", formatter.StyleGreen.Render("✔"), path)
			return nil
		},
	}

	cmd.Flags().Var(format, "format", "Document format: html or pdf")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the file to")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Export without asking when some chapters are missing")
	return cmd
}

func newLessonCmd(app *App) *cobra.Command {
	var (
		level  string
		outDir string
	)
	format := &formatFlag{}

	cmd := &cobra.Command{
		Use:   "lesson <topic>",
		Short: "Generate a one-off lesson on any AI topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			w := cmd.OutOrStdout()

			stop := func() {}
			if app.IsInteractive {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Writing your lesson on "+topic+"...")
			}
			lesson, err := app.Lessons.Generate(cmd.Context(), topic, domain.KnowledgeLevel(strings.ToLower(level)))
			stop()
			if err != nil {
				app.Log.Warn("lesson generation failed", "topic", topic, "error", err)
				return fmt.Errorf("could not generate a lesson on %q: %w", topic, err)
			}

			if format.format == "" {
				fmt.Fprint(w, formatter.FormatLesson(lesson))
				return nil
			}
			path, err := writeDocument(outDir, func(buf *bytes.Buffer) (string, error) {
				return app.Exporter.Lesson(buf, lesson, format.format)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s Exported %s\n", formatter.StyleGreen.Render("✔"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", string(domain.LevelIntermediate), "Knowledge level: beginner, intermediate, advanced or expert")
	cmd.Flags().Var(format, "export", "Write the lesson as html or pdf instead of printing it")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for --export")
	return cmd
}

func newSimplifyCmd(app *App) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "simplify <chapter>",
		Short: "Rewrite a chapter in simpler language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseChapter(args[0])
			if err != nil {
				return err
			}
			snap, err := loadCourse(cmd.Context(), app)
			if err != nil {
				return err
			}
			ch, ok := snap.Course.Chapter(n)
			if !ok {
				return fmt.Errorf("chapter %d is not part of this course", n)
			}
			if !ch.Ready() {
				return fmt.Errorf("chapter %d has no content yet", n)
			}

			stop := func() {}
			if app.IsInteractive {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Simplifying chapter "+args[0]+"...")
			}
			text, err := app.Simplifier.Simplify(cmd.Context(), ch.Content, level)
			stop()
			if err != nil {
				return fmt.Errorf("could not simplify chapter %d: %w", n, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatter.Header(ch.Title+" (simplified)"))
			fmt.Fprintln(w, formatter.RenderMarkdown(text))
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", intelligence.DefaultSimplifyLevel, "How much simpler the rewrite should be")
	return cmd
}
