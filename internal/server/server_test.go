package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/llm"
	"github.com/alexanderramin/pathway/internal/pipeline"
	"github.com/alexanderramin/pathway/internal/service"
	"github.com/alexanderramin/pathway/internal/testutil"
)

const lessonJSON = `{"topic":"RAG","knowledgeLevel":"advanced","content":"## RAG\n\nRetrieval first.","keyTerms":[{"term":"Embedding","definition":"Vector"}],"examples":["Support bot"],"practicalExercises":["Index your notes"]}`

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

type testServer struct {
	srv    *Server
	client *testutil.FakeLLMClient
	store  service.ProgressStore
}

func newTestServer(t *testing.T, chapters int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := testutil.NewFakeLLMClient()
	store := service.NewProgressStore(testutil.NewTestUoW(testutil.NewTestDB(t)), "test", nil)
	pipe := pipeline.New(
		intelligence.NewCourseGenerator(client, nil),
		store,
		nil,
		pipeline.Config{ChapterCount: chapters, Attempts: 1},
		pipeline.WithSleeper(noSleep{}),
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := New(ctx, Deps{
		Store:   store,
		Runner:  pipe,
		Lessons: intelligence.NewLessonService(client, intelligence.NewEnricher(client, nil)),
	})
	t.Cleanup(srv.gens.stop)
	return &testServer{srv: srv, client: client, store: store}
}

func (ts *testServer) scriptCourse(n int) {
	ts.client.Script(llm.TaskOutline, testutil.FakeReply{Text: testutil.OutlineJSON(testutil.NewTestOutline(n))})
	for _, stub := range testutil.NewTestOutline(n).Chapters {
		ts.client.Script(llm.TaskChapter, testutil.FakeReply{Text: testutil.ChapterJSON(stub)})
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type courseBody struct {
	Course       *domain.Course       `json:"course"`
	Progress     *domain.Progress     `json:"progress"`
	Cached       bool                 `json:"cached"`
	Percent      float64              `json:"percent"`
	Achievements []domain.Achievement `json:"achievements"`
	Generation   *GenerationStatus    `json:"generation"`
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorEnvelope {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode[ErrorEnvelope](t, rec)
	assert.Equal(t, code, env.Error.Code)
	assert.NotEmpty(t, env.Error.Message)
	return env
}

func TestHealthAndPersonas(t *testing.T) {
	ts := newTestServer(t, 3)

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "up", health["llm"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = ts.do(t, http.MethodGet, "/api/personas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Personas []struct {
			ID string `json:"id"`
		} `json:"personas"`
	}](t, rec)
	require.Len(t, body.Personas, 4)
	assert.Equal(t, "beginner", body.Personas[0].ID)
}

type staticChecker bool

func (s staticChecker) Available(context.Context) bool { return bool(s) }

func TestHealth_ReportsModelState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		llm  LLMChecker
		want string
	}{
		{"up", staticChecker(true), "up"},
		{"down", staticChecker(false), "down"},
		{"unconfigured", nil, "unconfigured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(context.Background(), Deps{LLM: tt.llm})
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tt.want, body["llm"])
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, 3)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCreateCourse_RejectsBadRequests(t *testing.T) {
	ts := newTestServer(t, 3)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"no source", map[string]any{}, "invalid_request"},
		{"two sources", map[string]any{"persona": "beginner", "answers": map[string]any{}}, "invalid_request"},
		{"unknown persona", map[string]any{"persona": "wizard"}, "unknown_persona"},
		{"bad answer", map[string]any{"answers": map[string]any{"knowledge_level": "Omniscient"}}, "invalid_profile"},
		{"bad profile", map[string]any{"profile": map[string]any{"aiScore": 150, "personaType": "applied"}}, "invalid_profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/course", tt.body)
			assertAPIError(t, rec, http.StatusBadRequest, tt.code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/course", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	assertAPIError(t, rec, http.StatusBadRequest, "invalid_request")
	assert.Zero(t, ts.client.Calls(llm.TaskOutline))
}

func TestCreateCourse_GeneratesInBackground(t *testing.T) {
	ts := newTestServer(t, 3)
	ts.scriptCourse(3)

	rec := ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	started := decode[struct {
		Generation GenerationStatus `json:"generation"`
	}](t, rec)
	assert.NotEmpty(t, started.Generation.RunID)
	assert.True(t, started.Generation.Running)
	assert.Equal(t, 3, started.Generation.Total)

	ts.srv.gens.wait()

	rec = ts.do(t, http.MethodGet, "/api/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[courseBody](t, rec)
	require.NotNil(t, body.Course)
	require.Len(t, body.Course.Chapters, 3)
	require.NotNil(t, body.Progress)
	assert.Equal(t, body.Course.ID, body.Progress.CourseID)
	require.NotNil(t, body.Generation)
	assert.Equal(t, started.Generation.RunID, body.Generation.RunID)
	assert.Equal(t, pipeline.StateCourseComplete, body.Generation.State)
	assert.False(t, body.Generation.Running)
	assert.Empty(t, body.Generation.Error)
	assert.Empty(t, body.Achievements)
}

func TestCreateCourse_ReusesCachedCourse(t *testing.T) {
	ts := newTestServer(t, 3)
	ts.scriptCourse(3)

	rec := ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.srv.gens.wait()

	rec = ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[courseBody](t, rec)
	assert.True(t, body.Cached)
	require.NotNil(t, body.Course)
	assert.Len(t, body.Course.Chapters, 3)
	assert.Equal(t, 1, ts.client.Calls(llm.TaskOutline))

	rec = ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied", "fresh": true})
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.srv.gens.wait()
	assert.Equal(t, 2, ts.client.Calls(llm.TaskOutline))
}

func TestCreateCourse_CacheHitDropsCancelledRun(t *testing.T) {
	ts := newTestServer(t, 2)
	outline := testutil.OutlineJSON(testutil.NewTestOutline(2))
	ts.client.Script(llm.TaskOutline,
		testutil.FakeReply{Text: outline},
		testutil.FakeReply{Text: outline, Delay: 2 * time.Second},
	)
	for _, stub := range testutil.NewTestOutline(2).Chapters {
		ts.client.Script(llm.TaskChapter, testutil.FakeReply{Text: testutil.ChapterJSON(stub)})
	}

	rec := ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.srv.gens.wait()

	rec = ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied", "fresh": true})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "applied"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[courseBody](t, rec).Cached)

	rec = ts.do(t, http.MethodGet, "/api/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[courseBody](t, rec)
	require.NotNil(t, body.Course)
	assert.True(t, body.Course.Complete())
	assert.Nil(t, body.Generation)
	assert.NotContains(t, rec.Body.String(), "context canceled")
}

func TestCreateCourse_OutlineFailureIsReported(t *testing.T) {
	ts := newTestServer(t, 3)
	ts.client.Script(llm.TaskOutline, testutil.FakeReply{Err: llm.ErrTimeout})

	rec := ts.do(t, http.MethodPost, "/api/course", map[string]any{"profile": testutil.NewTestProfile()})
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.srv.gens.wait()

	rec = ts.do(t, http.MethodGet, "/api/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[courseBody](t, rec)
	assert.Nil(t, body.Course)
	require.NotNil(t, body.Generation)
	assert.Equal(t, pipeline.StateOutlineFailed, body.Generation.State)
	assert.Contains(t, body.Generation.Error, "took too long")
	assert.Equal(t, "Please try again in a moment.", body.Generation.Hint)
	assert.False(t, body.Generation.Running)
}

func TestCreateCourse_NewRunSupersedesOld(t *testing.T) {
	ts := newTestServer(t, 2)
	outline := testutil.OutlineJSON(testutil.NewTestOutline(2))
	ts.client.Script(llm.TaskOutline,
		testutil.FakeReply{Text: outline, Delay: 2 * time.Second},
		testutil.FakeReply{Text: outline},
	)
	for _, stub := range testutil.NewTestOutline(2).Chapters {
		ts.client.Script(llm.TaskChapter, testutil.FakeReply{Text: testutil.ChapterJSON(stub)})
	}

	first := ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "beginner"})
	require.Equal(t, http.StatusAccepted, first.Code)
	second := ts.do(t, http.MethodPost, "/api/course", map[string]any{"persona": "technical"})
	require.Equal(t, http.StatusAccepted, second.Code)
	secondID := decode[struct {
		Generation GenerationStatus `json:"generation"`
	}](t, second).Generation.RunID

	ts.srv.gens.wait()

	rec := ts.do(t, http.MethodGet, "/api/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[courseBody](t, rec)
	require.NotNil(t, body.Course)
	assert.Equal(t, domain.PersonaTechnical, body.Course.UserProfile.PersonaType)
	require.NotNil(t, body.Generation)
	assert.Equal(t, secondID, body.Generation.RunID)
	assert.Equal(t, pipeline.StateCourseComplete, body.Generation.State)
}

func TestGetCourse_NothingStored(t *testing.T) {
	ts := newTestServer(t, 3)
	rec := ts.do(t, http.MethodGet, "/api/course", nil)
	assertAPIError(t, rec, http.StatusNotFound, "no_course")
}

func TestChapterVisitAndCompletion(t *testing.T) {
	ts := newTestServer(t, 3)
	_, err := ts.store.Start(context.Background(), testutil.NewTestCourse(3))
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/api/course/chapters/2/visit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	visited := decode[courseBody](t, rec)
	require.NotNil(t, visited.Progress)
	assert.Equal(t, 2, visited.Progress.CurrentChapter)

	rec = ts.do(t, http.MethodPost, "/api/course/chapters/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	type completion struct {
		Changed bool       `json:"changed"`
		Course  courseBody `json:"course"`
	}
	done := decode[completion](t, rec)
	assert.True(t, done.Changed)
	assert.Equal(t, []int{1}, done.Course.Progress.CompletedChapters)
	assert.InDelta(t, 1.0/3, done.Course.Percent, 0.001)
	require.Len(t, done.Course.Achievements, 1)
	assert.Equal(t, "First Steps", done.Course.Achievements[0].Title)

	rec = ts.do(t, http.MethodPost, "/api/course/chapters/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[completion](t, rec)
	assert.False(t, again.Changed)
	assert.Equal(t, []int{1}, again.Course.Progress.CompletedChapters)

	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/9/complete", nil), http.StatusNotFound, "chapter_not_found")
	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/abc/visit", nil), http.StatusBadRequest, "invalid_chapter")
	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/0/visit", nil), http.StatusBadRequest, "invalid_chapter")
}

func TestChapterProgress_UnfinishedCourse(t *testing.T) {
	ts := newTestServer(t, 3)
	require.NoError(t, ts.store.SaveCourse(context.Background(), testutil.NewTestCourse(3, 1)))

	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/1/visit", nil), http.StatusConflict, "course_incomplete")
	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/1/complete", nil), http.StatusConflict, "course_incomplete")

	rec := ts.do(t, http.MethodGet, "/api/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[courseBody](t, rec).Progress)
}

func TestChapterCompletion_NoCourse(t *testing.T) {
	ts := newTestServer(t, 3)
	assertAPIError(t, ts.do(t, http.MethodPost, "/api/course/chapters/1/complete", nil), http.StatusNotFound, "no_course")
}

func TestClearCourse(t *testing.T) {
	ts := newTestServer(t, 3)
	_, err := ts.store.Start(context.Background(), testutil.NewTestCourse(3))
	require.NoError(t, err)

	rec := ts.do(t, http.MethodDelete, "/api/course", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertAPIError(t, ts.do(t, http.MethodGet, "/api/course", nil), http.StatusNotFound, "no_course")
}

func TestExportCourse_PartialNeedsConfirmation(t *testing.T) {
	ts := newTestServer(t, 10)
	require.NoError(t, ts.store.SaveCourse(context.Background(), testutil.NewTestCourse(10, 1, 2, 3, 5, 6, 8, 9, 10)))

	env := assertAPIError(t, ts.do(t, http.MethodGet, "/api/course/export.html", nil), http.StatusConflict, "confirm_required")
	assert.Equal(t, "Only 8 of 10 chapters have content. Export anyway?", env.Error.Message)

	rec := ts.do(t, http.MethodGet, "/api/course/export.html?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="GenAI_at_Work.html"`, rec.Header().Get("Content-Disposition"))
	html := rec.Body.String()
	assert.Contains(t, html, "Chapter 3 Title")
	assert.NotContains(t, html, "Chapter 4 Title")
	assert.NotContains(t, html, "Chapter 7 Title")
}

func TestExportCourse_Errors(t *testing.T) {
	ts := newTestServer(t, 3)
	assertAPIError(t, ts.do(t, http.MethodGet, "/api/course/export.pdf", nil), http.StatusNotFound, "no_course")

	require.NoError(t, ts.store.SaveCourse(context.Background(), testutil.NewTestCourse(3, 0)))
	assertAPIError(t, ts.do(t, http.MethodGet, "/api/course/export.pdf?confirm=true", nil), http.StatusConflict, "no_content")
}

func TestExportCourse_PDF(t *testing.T) {
	ts := newTestServer(t, 2)
	require.NoError(t, ts.store.SaveCourse(context.Background(), testutil.NewTestCourse(2)))

	rec := ts.do(t, http.MethodGet, "/api/course/export.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCreateLesson(t *testing.T) {
	ts := newTestServer(t, 3)
	ts.client.Script(llm.TaskLesson, testutil.FakeReply{Text: lessonJSON})

	rec := ts.do(t, http.MethodPost, "/api/lessons", map[string]any{"topic": "RAG", "level": "Advanced"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Lesson domain.Lesson `json:"lesson"`
	}](t, rec)
	assert.Equal(t, "RAG", body.Lesson.Topic)
	assert.Equal(t, domain.LevelAdvanced, body.Lesson.KnowledgeLevel)
	assert.Empty(t, body.Lesson.LatestNews)

	rec = ts.do(t, http.MethodPost, "/api/lessons", map[string]any{"topic": "RAG", "format": "pdf"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
}

func TestCreateLesson_Errors(t *testing.T) {
	ts := newTestServer(t, 3)

	assertAPIError(t, ts.do(t, http.MethodPost, "/api/lessons", map[string]any{"topic": "  "}), http.StatusBadRequest, "invalid_request")
	assertAPIError(t, ts.do(t, http.MethodPost, "/api/lessons", map[string]any{"topic": "RAG", "format": "docx"}), http.StatusBadRequest, "unknown_format")
	assert.Zero(t, ts.client.Calls(llm.TaskLesson))

	env := assertAPIError(t, ts.do(t, http.MethodPost, "/api/lessons", map[string]any{"topic": "RAG"}), http.StatusBadGateway, "lesson_failed")
	assert.Equal(t, errLessonFailed.Error(), env.Error.Message)
}

func TestRun_StopsWhenContextEnds(t *testing.T) {
	ts := newTestServer(t, 3)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- ts.srv.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
