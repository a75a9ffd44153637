package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of completion being requested.
type TaskType string

const (
	TaskOutline  TaskType = "outline"
	TaskChapter  TaskType = "chapter"
	TaskLesson   TaskType = "lesson"
	TaskEnrich   TaskType = "enrich"
	TaskSimplify TaskType = "simplify"
)

// AllTasks lists every task type.
var AllTasks = []TaskType{TaskOutline, TaskChapter, TaskLesson, TaskEnrich, TaskSimplify}

// TaskConfig holds per-task completion parameters.
type TaskConfig struct {
	Model       string // overrides global if set
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the completion API client.
type LLMConfig struct {
	LogCalls          bool
	Endpoint          string
	APIKey            string
	Model             string
	TimeoutMs         int
	RequestsPerSecond float64 // 0 disables pacing
	Tasks             map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with the production model line-up.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		LogCalls:  false,
		Endpoint:  "https://api.venice.ai/api/v1",
		Model:     "mistral-31-24b",
		TimeoutMs: 25000,
		Tasks: map[TaskType]TaskConfig{
			TaskOutline:  {Model: "llama-3.3-70b", Temperature: 0.5, MaxTokens: 3000, TimeoutMs: 25000},
			TaskChapter:  {Model: "mistral-31-24b", Temperature: 0.7, MaxTokens: 8000, TimeoutMs: 25000},
			TaskLesson:   {Model: "mistral-31-24b", Temperature: 0.7, MaxTokens: 6000, TimeoutMs: 120000},
			TaskEnrich:   {Model: "llama-3.2-3b:enable_web_search=on", Temperature: 0.3, MaxTokens: 2000, TimeoutMs: 60000},
			TaskSimplify: {Model: "llama-3.2-3b", Temperature: 0.7, MaxTokens: 4000, TimeoutMs: 60000},
		},
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays PATHWAY_LLM_* environment variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("PATHWAY_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PATHWAY_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("PATHWAY_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PATHWAY_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PATHWAY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PATHWAY_LLM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RequestsPerSecond = f
		}
	}

	for _, task := range AllTasks {
		prefix := "PATHWAY_LLM_" + strings.ToUpper(string(task))
		applyTaskTimeoutEnv(cfg, task, prefix+"_TIMEOUT_MS")
		applyTaskModelEnv(cfg, task, prefix+"_MODEL")
	}
}

// TaskTimeout returns the effective timeout in milliseconds for a task.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// TaskModel returns the effective model for a task.
func (c LLMConfig) TaskModel(task TaskType) string {
	if tc, ok := c.Tasks[task]; ok && tc.Model != "" {
		return tc.Model
	}
	return c.Model
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

func applyTaskModelEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := strings.TrimSpace(os.Getenv(envName))
	if v == "" {
		return
	}
	tc := cfg.Tasks[task]
	tc.Model = v
	cfg.Tasks[task] = tc
}
