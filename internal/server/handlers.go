package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/export"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/pipeline"
	"github.com/alexanderramin/pathway/internal/profile"
	"github.com/alexanderramin/pathway/internal/service"
)

var errLessonFailed = errors.New("we couldn't generate this lesson right now, please try again")

type handlers struct {
	store    service.ProgressStore
	gens     *generations
	lessons  intelligence.LessonService
	exporter *export.Exporter
	llm      LLMChecker
	log      *logger.Logger
	now      func() time.Time
}

type courseRequest struct {
	Persona string              `json:"persona"`
	Profile *domain.UserProfile `json:"profile"`
	Answers profile.Answers     `json:"answers"`
	Fresh   bool                `json:"fresh"`
}

type lessonRequest struct {
	Topic  string `json:"topic"`
	Level  string `json:"level"`
	Format string `json:"format"`
}

type courseResponse struct {
	Course       *domain.Course       `json:"course"`
	Progress     *domain.Progress     `json:"progress"`
	Cached       bool                 `json:"cached,omitempty"`
	Percent      float64              `json:"percent"`
	DaysActive   int                  `json:"daysActive"`
	Achievements []domain.Achievement `json:"achievements"`
	Generation   *GenerationStatus    `json:"generation,omitempty"`
}

const healthCheckTimeout = 3 * time.Second

// health stays 200 while the model is down so saved courses remain readable.
func (h *handlers) health(c *gin.Context) {
	llmState := "unconfigured"
	if h.llm != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		llmState = "down"
		if h.llm.Available(ctx) {
			llmState = "up"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "llm": llmState})
}

func (h *handlers) personas(c *gin.Context) {
	respondOK(c, gin.H{"personas": profile.Presets()})
}

func (h *handlers) createCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, match, code, err := resolveProfile(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, code, err)
		return
	}

	// A run in flight would otherwise race the cache check on the same slot.
	h.gens.stop()

	if !req.Fresh {
		snap, hit, err := h.store.Cached(c.Request.Context(), p, match)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "store_failed", err)
			return
		}
		if hit {
			// Drop the cancelled run so GET /api/course stops reporting it.
			h.gens.reset()
			resp := h.view(snap)
			resp.Cached = true
			respondOK(c, resp)
			return
		}
	}

	st := h.gens.start(p, pipeline.RunOptions{Fresh: true})
	c.JSON(http.StatusAccepted, gin.H{"generation": st})
}

func resolveProfile(req courseRequest) (domain.UserProfile, service.CacheMatch, string, error) {
	sources := 0
	if req.Persona != "" {
		sources++
	}
	if req.Profile != nil {
		sources++
	}
	if req.Answers != nil {
		sources++
	}
	if sources != 1 {
		return domain.UserProfile{}, 0, "invalid_request", errors.New("provide exactly one of persona, profile or answers")
	}

	switch {
	case req.Persona != "":
		p, ok := profile.FromPersona(domain.PersonaType(strings.ToLower(req.Persona)))
		if !ok {
			return domain.UserProfile{}, 0, "unknown_persona", fmt.Errorf("unknown persona %q", req.Persona)
		}
		return p, service.MatchPersona, "", nil
	case req.Profile != nil:
		if err := profile.Validate(*req.Profile); err != nil {
			return domain.UserProfile{}, 0, "invalid_profile", err
		}
		return *req.Profile, service.MatchProfile, "", nil
	default:
		if err := profile.ValidateAnswers(req.Answers); err != nil {
			return domain.UserProfile{}, 0, "invalid_profile", err
		}
		p, err := profile.FromAnswers(req.Answers)
		if err != nil {
			return domain.UserProfile{}, 0, "invalid_profile", err
		}
		return p, service.MatchProfile, "", nil
	}
}

func (h *handlers) getCourse(c *gin.Context) {
	st, started := h.gens.snapshot()
	snap, err := h.store.Load(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrNoCourse):
		if !started {
			respondError(c, http.StatusNotFound, "no_course", err)
			return
		}
		snap = &service.Snapshot{}
	case err != nil:
		respondError(c, http.StatusInternalServerError, "store_failed", err)
		return
	}
	resp := h.view(snap)
	if started {
		resp.Generation = &st
	}
	respondOK(c, resp)
}

func (h *handlers) visitChapter(c *gin.Context) {
	n, ok := chapterParam(c)
	if !ok {
		return
	}
	if _, err := h.store.RecordVisit(c.Request.Context(), n); err != nil {
		h.storeError(c, err)
		return
	}
	h.respondSnapshot(c, nil)
}

func (h *handlers) completeChapter(c *gin.Context) {
	n, ok := chapterParam(c)
	if !ok {
		return
	}
	_, changed, err := h.store.RecordCompletion(c.Request.Context(), n)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.respondSnapshot(c, gin.H{"changed": changed})
}

func (h *handlers) clearCourse(c *gin.Context) {
	h.gens.reset()
	if err := h.store.Clear(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "store_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) exportCourse(f export.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := h.store.Load(c.Request.Context())
		if err != nil {
			h.storeError(c, err)
			return
		}

		confirmed := c.Query("confirm") == "true"
		var included, total int
		confirm := func(i, t int) bool {
			included, total = i, t
			return confirmed
		}

		var buf bytes.Buffer
		name, err := h.exporter.Course(&buf, snap.Course, f, confirm)
		switch {
		case errors.Is(err, export.ErrNoContent):
			respondError(c, http.StatusConflict, "no_content", err)
			return
		case errors.Is(err, export.ErrExportDeclined):
			respondError(c, http.StatusConflict, "confirm_required", errors.New(export.PartialPrompt(included, total)))
			return
		case err != nil:
			h.log.Warn("course export failed", "format", string(f), "error", err)
			respondError(c, http.StatusInternalServerError, "export_failed", err)
			return
		}
		sendDocument(c, name, f, buf.Bytes())
	}
}

func (h *handlers) createLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var format export.Format
	if req.Format != "" {
		f, ok := export.ParseFormat(req.Format)
		if !ok {
			respondError(c, http.StatusBadRequest, "unknown_format", fmt.Errorf("%w: %q", export.ErrUnknownFormat, req.Format))
			return
		}
		format = f
	}

	lesson, err := h.lessons.Generate(c.Request.Context(), req.Topic, domain.KnowledgeLevel(strings.ToLower(req.Level)))
	switch {
	case errors.Is(err, intelligence.ErrEmptyTopic):
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	case err != nil:
		h.log.Warn("lesson generation failed", "topic", req.Topic, "error", err)
		respondError(c, http.StatusBadGateway, "lesson_failed", errLessonFailed)
		return
	}

	if format == "" {
		respondOK(c, gin.H{"lesson": lesson})
		return
	}
	var buf bytes.Buffer
	name, err := h.exporter.Lesson(&buf, lesson, format)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	sendDocument(c, name, format, buf.Bytes())
}

func (h *handlers) respondSnapshot(c *gin.Context, extra gin.H) {
	snap, err := h.store.Load(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	if extra == nil {
		respondOK(c, h.view(snap))
		return
	}
	extra["course"] = h.view(snap)
	respondOK(c, extra)
}

func (h *handlers) view(snap *service.Snapshot) courseResponse {
	resp := courseResponse{
		Course:       snap.Course,
		Progress:     snap.Progress,
		Achievements: []domain.Achievement{},
	}
	if snap.Course != nil && snap.Progress != nil {
		resp.Percent = snap.Progress.Percent(len(snap.Course.Chapters))
		resp.DaysActive = snap.Progress.DaysSinceStart(h.now())
		if a := domain.Achievements(len(snap.Progress.CompletedChapters)); a != nil {
			resp.Achievements = a
		}
	}
	return resp
}

func (h *handlers) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoCourse):
		respondError(c, http.StatusNotFound, "no_course", err)
	case errors.Is(err, service.ErrChapterNotFound):
		respondError(c, http.StatusNotFound, "chapter_not_found", err)
	case errors.Is(err, service.ErrCourseIncomplete):
		respondError(c, http.StatusConflict, "course_incomplete", err)
	case errors.Is(err, service.ErrChapterNotReady):
		respondError(c, http.StatusConflict, "chapter_not_ready", err)
	default:
		h.log.Error("store request failed", "error", err)
		respondError(c, http.StatusInternalServerError, "store_failed", err)
	}
}

func chapterParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		respondError(c, http.StatusBadRequest, "invalid_chapter", fmt.Errorf("chapter must be a positive number, got %q", c.Param("n")))
		return 0, false
	}
	return n, true
}

func sendDocument(c *gin.Context, name string, f export.Format, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, f.ContentType(), body)
}
