package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/pathway/internal/cli"
	"github.com/alexanderramin/pathway/internal/config"
	"github.com/alexanderramin/pathway/internal/db"
	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/llm"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/pipeline"
	"github.com/alexanderramin/pathway/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := service.NewProgressStore(
		db.NewSQLiteUnitOfWork(database),
		cfg.Slot,
		log,
		service.WithObserver(service.NewLogUseCaseObserver(log)),
	)

	client := llm.NewChatClient(cfg.LLM, llm.NewLogObserver(log))
	// Chapters skip the web-search enrichment; one-off lessons use it.
	courses := intelligence.NewCourseGenerator(client, nil)
	gen := pipeline.New(courses, store, log, pipeline.Config{
		ChapterCount: cfg.ChapterCount,
		Attempts:     cfg.Retry.Attempts,
		Delay:        cfg.Retry.Delay(),
	})

	app := &cli.App{
		Store:         store,
		Generator:     gen,
		Lessons:       intelligence.NewLessonService(client, intelligence.NewEnricher(client, log)),
		Simplifier:    intelligence.NewSimplifyService(client),
		Exporter:      export.New(),
		Log:           log,
		LLM:           client,
		ListenAddr:    cfg.ListenAddr,
		IsInteractive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("starting", "env", cfg.Env, "db", cfg.DBPath, "chapters", cfg.ChapterCount)
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
