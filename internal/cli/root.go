// Package cli implements the pathway command tree.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/pipeline"
	"github.com/alexanderramin/pathway/internal/server"
	"github.com/alexanderramin/pathway/internal/service"
)

// Generator runs course generation. *pipeline.Pipeline satisfies it.
type Generator interface {
	Run(ctx context.Context, profile domain.UserProfile, opts pipeline.RunOptions, sink pipeline.EventSink) (*pipeline.Result, error)
	ChapterCount() int
}

// ConfirmFunc asks the learner a yes/no question.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// App holds the services the commands use.
type App struct {
	Store      service.ProgressStore
	Generator  Generator
	Lessons    intelligence.LessonService
	Simplifier intelligence.SimplifyService
	Exporter   *export.Exporter
	Log        *logger.Logger
	// LLM backs the serve command's health check.
	LLM server.LLMChecker

	// ListenAddr is the default address for the serve command.
	ListenAddr string
	// IsInteractive enables the quiz, prompts and the progress TUI.
	IsInteractive bool
	// Confirm overrides the interactive yes/no prompt.
	Confirm ConfirmFunc
	Now     func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) confirm(ctx context.Context, question string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(ctx, question)
	}
	if !a.IsInteractive {
		return false, nil
	}
	return huhConfirm(ctx, question)
}

// NewRootCmd creates the top-level "pathway" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Log == nil {
		app.Log = logger.Nop()
	}
	if app.Exporter == nil {
		app.Exporter = export.New()
	}

	root := &cobra.Command{
		Use:           "pathway",
		Short:         "Personalized AI learning courses in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPersonasCmd(app),
		newQuizCmd(app),
		newGenerateCmd(app),
		newCourseCmd(app),
		newReadCmd(app),
		newCompleteCmd(app),
		newExportCmd(app),
		newLessonCmd(app),
		newSimplifyCmd(app),
		newResetCmd(app),
		newServeCmd(app),
	)

	return root
}

// loadCourse returns the stored snapshot, translating an empty store into a
// hint for the learner.
func loadCourse(ctx context.Context, app *App) (*service.Snapshot, error) {
	snap, err := app.Store.Load(ctx)
	if errors.Is(err, service.ErrNoCourse) {
		return nil, errors.New("no course yet, run `pathway generate --persona beginner` or `pathway generate --quiz` to create one")
	}
	return snap, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
