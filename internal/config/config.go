// Package config assembles application settings from defaults, an optional
// TOML file, an optional .env file and the process environment, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/alexanderramin/pathway/internal/llm"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devChapterCount  = 3
	prodChapterCount = 10
)

// RetryConfig bounds chapter-generation retries.
type RetryConfig struct {
	Attempts int `toml:"attempts"`
	DelayMs  int `toml:"delay_ms"`
}

// Delay returns the pause between attempts.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelayMs) * time.Millisecond
}

// LLMFile is the [llm] table of the config file.
type LLMFile struct {
	Endpoint          string            `toml:"endpoint"`
	APIKey            string            `toml:"api_key"`
	RequestsPerSecond float64           `toml:"requests_per_second"`
	LogCalls          bool              `toml:"log_calls"`
	Models            map[string]string `toml:"models"`
	TimeoutsMs        map[string]int    `toml:"timeouts_ms"`
}

// Config holds every application setting.
type Config struct {
	Env          string      `toml:"env"`
	DBPath       string      `toml:"db_path"`
	Slot         string      `toml:"slot"`
	ChapterCount int         `toml:"chapter_count"`
	ListenAddr   string      `toml:"listen_addr"`
	LogMode      string      `toml:"log_mode"`
	Retry        RetryConfig `toml:"retry"`
	LLMFile      LLMFile     `toml:"llm"`

	// LLM is the resolved client configuration.
	LLM llm.LLMConfig `toml:"-"`
}

// Options locates the optional input files.
type Options struct {
	ConfigPath string // empty uses PATHWAY_CONFIG or <home>/.pathway/config.toml
	DotEnvPath string // empty uses ./.env
	HomeDir    string // empty uses the user's home directory
}

// Production reports whether the production profile is active.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	home := opts.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		home = h
	}

	dotEnv := opts.DotEnvPath
	if dotEnv == "" {
		dotEnv = ".env"
	}
	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(dotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", dotEnv, err)
	}

	cfg := Config{
		Env:        EnvDevelopment,
		DBPath:     filepath.Join(home, ".pathway", "pathway.db"),
		ListenAddr: "127.0.0.1:8080",
		LogMode:    "quiet",
		Retry:      RetryConfig{Attempts: 2, DelayMs: 2000},
	}

	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("PATHWAY_CONFIG")
	}
	if path == "" {
		path = filepath.Join(home, ".pathway", "config.toml")
	}
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)

	if cfg.Env != EnvProduction {
		cfg.Env = EnvDevelopment
	}
	if cfg.ChapterCount <= 0 {
		cfg.ChapterCount = devChapterCount
		if cfg.Production() {
			cfg.ChapterCount = prodChapterCount
		}
	}
	if cfg.Slot == "" {
		cfg.Slot = cfg.Env
	}
	if cfg.Retry.Attempts < 1 {
		cfg.Retry.Attempts = 1
	}
	if cfg.Retry.DelayMs < 0 {
		cfg.Retry.DelayMs = 0
	}

	cfg.LLM = resolveLLM(cfg.LLMFile)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PATHWAY_ENV"); v != "" {
		cfg.Env = strings.ToLower(v)
	}
	if v := os.Getenv("PATHWAY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PATHWAY_SLOT"); v != "" {
		cfg.Slot = v
	}
	if v := os.Getenv("PATHWAY_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PATHWAY_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("PATHWAY_CHAPTER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChapterCount = n
		}
	}
	if v := os.Getenv("PATHWAY_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.Attempts = n
		}
	}
	if v := os.Getenv("PATHWAY_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Retry.DelayMs = n
		}
	}
}

// resolveLLM layers the file's [llm] table between the built-in defaults
// and the PATHWAY_LLM_* environment.
func resolveLLM(f LLMFile) llm.LLMConfig {
	out := llm.DefaultConfig()
	if f.Endpoint != "" {
		out.Endpoint = strings.TrimRight(f.Endpoint, "/")
	}
	if f.APIKey != "" {
		out.APIKey = f.APIKey
	}
	if f.RequestsPerSecond > 0 {
		out.RequestsPerSecond = f.RequestsPerSecond
	}
	out.LogCalls = out.LogCalls || f.LogCalls
	for name, model := range f.Models {
		task := llm.TaskType(name)
		tc := out.Tasks[task]
		tc.Model = model
		out.Tasks[task] = tc
	}
	for name, ms := range f.TimeoutsMs {
		if ms <= 0 {
			continue
		}
		task := llm.TaskType(name)
		tc := out.Tasks[task]
		tc.TimeoutMs = ms
		out.Tasks[task] = tc
	}
	llm.ApplyEnv(&out)
	return out
}
