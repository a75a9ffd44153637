package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/pathway/internal/cli/formatter"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/pipeline"
	"github.com/alexanderramin/pathway/internal/profile"
	"github.com/alexanderramin/pathway/internal/service"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		persona string
		quiz    bool
		answers string
		fresh   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a personalized course",
		Long: "Generate a course from a persona preset, the interactive quiz or saved quiz answers.\n" +
			"A saved course for the same learner is reused unless --fresh is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := 0
			for _, set := range []bool{persona != "", quiz, answers != ""} {
				if set {
					sources++
				}
			}
			if sources != 1 {
				return errors.New("choose one of --persona, --quiz or --answers")
			}

			var (
				p     domain.UserProfile
				match = service.MatchPersona
				err   error
			)
			switch {
			case persona != "":
				var ok bool
				p, ok = profile.FromPersona(domain.PersonaType(strings.ToLower(persona)))
				if !ok {
					return fmt.Errorf("unknown persona %q, see `pathway personas`", persona)
				}
			case quiz:
				_, p, err = runQuiz(cmd.Context(), app)
				match = service.MatchProfile
			default:
				_, p, err = readAnswers(answers)
				match = service.MatchProfile
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatter.FormatProfile(p, app.Generator.ChapterCount()))
			fmt.Fprintln(w)

			opts := pipeline.RunOptions{Fresh: fresh, Match: match}
			var res *pipeline.Result
			if app.IsInteractive {
				res, err = generateTUI(cmd.Context(), app, p, opts, w)
			} else {
				res, err = generatePlain(cmd.Context(), app, p, opts, w)
			}
			if err != nil {
				return generateError(err)
			}

			fmt.Fprintln(w)
			if res.Cached {
				fmt.Fprintln(w, formatter.Dim("Loaded your saved course. Use --fresh to generate a new one."))
			}
			if len(res.Fallbacks) > 0 {
				fmt.Fprintln(w, formatter.StyleYellow.Render(fmt.Sprintf(
					"%s used placeholder content. Run `pathway generate --fresh` to try again.", chapterList(res.Fallbacks))))
			}
			fmt.Fprint(w, formatter.FormatCourse(res.Course, res.Progress, app.now()))
			fmt.Fprintln(w, formatter.Dim("\nStart reading with: pathway read 1"))
			return nil
		},
	}

	cmd.Flags().StringVar(&persona, "persona", "", "Use a persona preset (see `pathway personas`)")
	cmd.Flags().BoolVar(&quiz, "quiz", false, "Take the quiz to build your profile")
	cmd.Flags().StringVar(&answers, "answers", "", "Use quiz answers saved with `pathway quiz --out`")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Ignore any saved course")
	cmd.MarkFlagsMutuallyExclusive("persona", "quiz", "answers")

	return cmd
}

// generatePlain prints one line per pipeline event.
func generatePlain(ctx context.Context, app *App, p domain.UserProfile, opts pipeline.RunOptions, w io.Writer) (*pipeline.Result, error) {
	return app.Generator.Run(ctx, p, opts, func(ev pipeline.Event) {
		switch ev.Kind {
		case pipeline.EventStatus:
			fmt.Fprintf(w, "→ %s\n", ev.Message)
		case pipeline.EventRetrying:
			fmt.Fprintf(w, "  ↻ %s\n", ev.Message)
		case pipeline.EventSnapshot:
			if ev.State == pipeline.StateChapterFallback {
				fmt.Fprintf(w, "  ◐ %s\n", ev.Message)
			} else {
				fmt.Fprintf(w, "  ✔ %s\n", ev.Message)
			}
		case pipeline.EventComplete:
			fmt.Fprintf(w, "✔ %s\n", ev.Message)
		}
	})
}

// generateTUI runs the pipeline behind the bubbletea progress view. Leaving
// the view cancels the run.
func generateTUI(ctx context.Context, app *App, p domain.UserProfile, opts pipeline.RunOptions, w io.Writer) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan tea.Msg, 64)
	go func() {
		defer close(msgs)
		res, err := app.Generator.Run(ctx, p, opts, func(ev pipeline.Event) {
			select {
			case msgs <- runEventMsg{ev: ev}:
			case <-ctx.Done():
			}
		})
		select {
		case msgs <- runDoneMsg{res: res, err: err}:
		case <-ctx.Done():
		}
	}()

	prog := tea.NewProgram(newGenerateModel(app.Generator.ChapterCount(), msgs, cancel), tea.WithContext(ctx), tea.WithOutput(w))
	final, err := prog.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}
	m, ok := final.(generateModel)
	if !ok || !m.done {
		cancel()
		for msg := range msgs {
			if done, ok := msg.(runDoneMsg); ok {
				return done.res, done.err
			}
		}
		return nil, context.Canceled
	}
	return m.result, m.err
}

func generateError(err error) error {
	var oe *pipeline.OutlineError
	switch {
	case errors.As(err, &oe):
		return fmt.Errorf("%s %s", oe.Message, oe.Hint())
	case errors.Is(err, context.Canceled):
		return errors.New("generation cancelled")
	default:
		return err
	}
}

func chapterList(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	if len(nums) == 1 {
		return "Chapter " + parts[0]
	}
	return "Chapters " + strings.Join(parts, ", ")
}
