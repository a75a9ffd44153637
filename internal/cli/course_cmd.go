package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/pathway/internal/cli/formatter"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/service"
)

func parseChapter(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("chapter must be a positive number, got %q", arg)
	}
	return n, nil
}

func chapterError(err error, n int) error {
	switch {
	case errors.Is(err, service.ErrChapterNotFound):
		return fmt.Errorf("chapter %d is not part of this course", n)
	case errors.Is(err, service.ErrCourseIncomplete):
		return errors.New("your course is still being generated, run `pathway generate` to finish it before tracking progress")
	case errors.Is(err, service.ErrChapterNotReady):
		return fmt.Errorf("chapter %d has no content yet", n)
	}
	return err
}

func newCourseCmd(app *App) *cobra.Command {
	var (
		summary bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "course",
		Short: "Show your course and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadCourse(cmd.Context(), app)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(w, snap)
			case summary:
				fmt.Fprintln(w, snap.Course.Summary())
			default:
				fmt.Fprint(w, formatter.FormatCourse(snap.Course, snap.Progress, app.now()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Print a shareable plain-text summary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the course and progress as JSON")
	return cmd
}

func newReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read <chapter>",
		Short: "Read a chapter",
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
				return chapterError(service.ErrChapterNotFound, n)
			}
			w := cmd.OutOrStdout()
			total := len(snap.Course.Chapters)
			progress, err := app.Store.RecordVisit(cmd.Context(), n)
			if errors.Is(err, service.ErrCourseIncomplete) {
				// Readable while generating; progress starts once the course is done.
				fmt.Fprint(w, formatter.FormatChapter(ch, total, false))
				fmt.Fprintln(w, formatter.Dim("\nFinish generating with: pathway generate"))
				return nil
			}
			if err != nil {
				return chapterError(err, n)
			}

			fmt.Fprint(w, formatter.FormatChapter(ch, total, progress.IsCompleted(n)))
			if ch.Ready() && !progress.IsCompleted(n) {
				fmt.Fprintln(w, formatter.Dim(fmt.Sprintf("\nDone? Run: pathway complete %d", n)))
			} else if n < total {
				fmt.Fprintln(w, formatter.Dim(fmt.Sprintf("\nNext: pathway read %d", n+1)))
			}
			return nil
		},
	}
}

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <chapter>",
		Short: "Mark a chapter as completed",
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
			progress, changed, err := app.Store.RecordCompletion(cmd.Context(), n)
			if err != nil {
				return chapterError(err, n)
			}

			w := cmd.OutOrStdout()
			total := len(snap.Course.Chapters)
			done := len(progress.CompletedChapters)
			if !changed {
				fmt.Fprintf(w, "Chapter %d was already completed.\n", n)
			} else {
				fmt.Fprintf(w, "%s Chapter %d completed.\n", formatter.StyleGreen.Render("✔"), n)
				for _, a := range domain.Achievements(done) {
					if a.At == done {
						fmt.Fprintf(w, "%s Achievement unlocked: %s\n", a.Icon, formatter.StyleYellow.Render(a.Title))
					}
				}
			}
			fmt.Fprintf(w, "%s  %d of %d chapters complete\n", formatter.RenderProgress(progress.Percent(total), 24), done, total)
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete your course and progress to start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.IsInteractive && app.Confirm == nil {
					return errors.New("refusing to reset without confirmation, pass --yes")
				}
				ok, err := app.confirm(cmd.Context(), "Delete your course and all progress?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing was deleted.")
					return nil
				}
			}
			if err := app.Store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Your course and progress were deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
