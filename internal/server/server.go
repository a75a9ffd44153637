// Package server exposes the course store, the generation pipeline and the
// exporters as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Deps are the services behind the API.
type Deps struct {
	Store    service.ProgressStore
	Runner   CourseRunner
	Lessons  intelligence.LessonService
	Exporter *export.Exporter
	Log      *logger.Logger
	// LLM is reported by /healthz; nil reports the model as unconfigured.
	LLM LLMChecker
	// Origins overrides the CORS allow-list.
	Origins []string
}

// LLMChecker reports whether the model API answers.
type LLMChecker interface {
	Available(ctx context.Context) bool
}

type Server struct {
	Engine *gin.Engine
	gens   *generations
	log    *logger.Logger
}

// New builds the server. Background generations are cancelled when ctx ends.
func New(ctx context.Context, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Exporter == nil {
		deps.Exporter = export.New()
	}
	gens := newGenerations(ctx, deps.Runner, deps.Log)
	h := &handlers{
		store:    deps.Store,
		gens:     gens,
		lessons:  deps.Lessons,
		exporter: deps.Exporter,
		llm:      deps.LLM,
		log:      deps.Log,
		now:      time.Now,
	}
	return &Server{Engine: newRouter(h, deps.Origins), gens: gens, log: deps.Log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Run serves on addr until ctx ends, then shuts down gracefully and waits for
// a running generation to stop.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.gens.stop()
		s.log.Info("server stopped")
		return err
	})
	return g.Wait()
}
