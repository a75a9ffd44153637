package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/pathway/internal/cli/formatter"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/profile"
)

var errQuizAborted = errors.New("quiz cancelled")

func pathwayHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func huhConfirm(ctx context.Context, question string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(pathwayHuhTheme()).WithShowHelp(false).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// quizForm is one huh group per question, bound to answer holders that
// answers() reads back.
type quizForm struct {
	form    *huh.Form
	single  map[string]*string
	multi   map[string]*[]string
	scale   map[string]*int
	ordered []string
}

func newQuizForm() *quizForm {
	q := &quizForm{
		single: map[string]*string{},
		multi:  map[string]*[]string{},
		scale:  map[string]*int{},
	}
	groups := make([]*huh.Group, 0, len(profile.Questions))
	for i, question := range profile.Questions {
		title := fmt.Sprintf("%d/%d  %s", i+1, len(profile.Questions), question.Prompt)
		q.ordered = append(q.ordered, question.ID)

		var field huh.Field
		switch question.Kind {
		case profile.KindMultiple:
			v := &[]string{}
			q.multi[question.ID] = v
			field = huh.NewMultiSelect[string]().
				Title(title).
				Description("Select all that apply").
				Options(huh.NewOptions(question.Options...)...).
				Value(v)
		case profile.KindScale:
			v := new(int)
			q.scale[question.ID] = v
			field = huh.NewSelect[int]().
				Title(title).
				Options(scaleOptions(question.Scale)...).
				Value(v)
		default:
			v := new(string)
			q.single[question.ID] = v
			field = huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(question.Options...)...).
				Value(v)
		}
		groups = append(groups, huh.NewGroup(field))
	}
	q.form = huh.NewForm(groups...).WithTheme(pathwayHuhTheme())
	return q
}

func scaleOptions(r *profile.ScaleRange) []huh.Option[int] {
	if r == nil {
		r = &profile.ScaleRange{Min: 1, Max: 5}
	}
	opts := make([]huh.Option[int], 0, r.Max-r.Min+1)
	for n := r.Min; n <= r.Max; n++ {
		label := strconv.Itoa(n)
		switch n {
		case r.Min:
			if r.MinLabel != "" {
				label += " - " + r.MinLabel
			}
		case r.Max:
			if r.MaxLabel != "" {
				label += " - " + r.MaxLabel
			}
		}
		opts = append(opts, huh.NewOption(label, n))
	}
	return opts
}

func (q *quizForm) answers() profile.Answers {
	out := profile.Answers{}
	for _, id := range q.ordered {
		switch {
		case q.single[id] != nil && *q.single[id] != "":
			out[id] = profile.Answer{Choice: *q.single[id]}
		case q.multi[id] != nil && len(*q.multi[id]) > 0:
			out[id] = profile.Answer{Choices: append([]string(nil), *q.multi[id]...)}
		case q.scale[id] != nil && *q.scale[id] != 0:
			out[id] = profile.Answer{Scale: *q.scale[id]}
		}
	}
	return out
}

// runQuiz asks the ten questions and builds the profile.
func runQuiz(ctx context.Context, app *App) (profile.Answers, domain.UserProfile, error) {
	if !app.IsInteractive {
		return nil, domain.UserProfile{}, errors.New("the quiz needs an interactive terminal, use --answers FILE instead")
	}
	q := newQuizForm()
	if err := q.form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, domain.UserProfile{}, errQuizAborted
		}
		return nil, domain.UserProfile{}, err
	}
	answers := q.answers()
	p, err := profile.FromAnswers(answers)
	return answers, p, err
}

// readAnswers loads quiz answers saved as JSON.
func readAnswers(path string) (profile.Answers, domain.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.UserProfile{}, fmt.Errorf("reading answers: %w", err)
	}
	var answers profile.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, domain.UserProfile{}, fmt.Errorf("parsing answers %s: %w", path, err)
	}
	if err := profile.ValidateAnswers(answers); err != nil {
		return nil, domain.UserProfile{}, err
	}
	p, err := profile.FromAnswers(answers)
	return answers, p, err
}

func newPersonasCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List the ready-made learner personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := profile.Presets()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), presets)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPersonas(presets))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("\nStart with: pathway generate --persona <id>"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print presets as JSON")
	return cmd
}

func newQuizCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Answer ten questions to build your learning profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, p, err := runQuiz(cmd.Context(), app)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatter.FormatProfile(p, app.Generator.ChapterCount()))
			if out == "" {
				return nil
			}
			data, err := json.MarshalIndent(answers, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("saving answers: %w", err)
			}
			fmt.Fprintf(w, "Answers saved to %s. Generate with: pathway generate --answers %s\n", out, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Save answers as JSON to this file")
	return cmd
}
