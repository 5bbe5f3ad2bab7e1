// Package config resolves englifish settings from defaults, a YAML file,
// a .env file and ENGLIFISH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/englifish/englifish/internal/evaluate"
)

// Content sources.
const (
	SourceBundled = "bundled"
	SourceFile    = "file"
	SourceHTTP    = "http"
	SourceStore   = "store"
)

// Config is the resolved application configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	DB      DBConfig      `yaml:"db"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	LLM     LLMConfig     `yaml:"llm"`
}

// ContentConfig selects where exercise sets and grammar topics come from.
type ContentConfig struct {
	Source  string `yaml:"source" validate:"oneof=bundled file http store"`
	Dir     string `yaml:"dir" validate:"required_if=Source file"`
	BaseURL string `yaml:"base_url" validate:"required_if=Source http,omitempty,url"`
}

// DBConfig holds the catalog database location. Empty means the default
// data directory.
type DBConfig struct {
	Path string `yaml:"path"`
}

// QuizConfig tunes the evaluators and question order.
type QuizConfig struct {
	MaxAttempts      int            `yaml:"max_attempts" validate:"min=1,max=5"`
	MaxBlankAttempts int            `yaml:"max_blank_attempts" validate:"min=0,max=10"`
	Shuffle          bool           `yaml:"shuffle"`
	Feedback         FeedbackConfig `yaml:"feedback"`
}

// FeedbackConfig holds how long transient UI states last.
type FeedbackConfig struct {
	MatchingReset time.Duration `yaml:"matching_reset" validate:"duration_min=100ms"`
	Temporary     time.Duration `yaml:"temporary" validate:"duration_min=500ms"`
	Retry         time.Duration `yaml:"retry" validate:"duration_min=500ms"`
}

// ServerConfig configures the read-only content API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`

	// File receives logs while the TUI owns the terminal. Empty means
	// <data dir>/englifish.log.
	File string `yaml:"file"`
}

// LLMConfig controls explanations for missed answers. Provider keys are
// read from the environment by the llm package; with Enabled set and no
// key available the tutor stays off.
type LLMConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter mock"`
	Model    string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := evaluate.DefaultPolicy()
	return &Config{
		Content: ContentConfig{Source: SourceBundled},
		Quiz: QuizConfig{
			MaxAttempts:      p.MaxTextAttempts,
			MaxBlankAttempts: p.MaxBlankAttempts,
			Shuffle:          true,
			Feedback: FeedbackConfig{
				MatchingReset: p.MatchingResetDelay,
				Temporary:     p.TemporaryFeedback,
				Retry:         p.RetryFeedback,
			},
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8484",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{Enabled: true},
	}
}

// Policy converts the quiz settings into evaluator limits.
func (c *Config) Policy() evaluate.Policy {
	return evaluate.Policy{
		MaxTextAttempts:    c.Quiz.MaxAttempts,
		MaxBlankAttempts:   c.Quiz.MaxBlankAttempts,
		MatchingResetDelay: c.Quiz.Feedback.MatchingReset,
		TemporaryFeedback:  c.Quiz.Feedback.Temporary,
		RetryFeedback:      c.Quiz.Feedback.Retry,
	}
}

// Dir returns the path to the englifish config directory.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "englifish"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "englifish"), nil
}

// LoadOptions points Load at non-default files.
type LoadOptions struct {
	// Path is an explicit config file. It must exist.
	Path string

	// EnvFile is the dotenv file to read. Empty means ".env"; a missing
	// file is ignored.
	EnvFile string
}

// Load resolves the configuration. The result is not validated, so that
// callers can apply flag overrides first.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays ENGLIFISH_* variables.
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("ENGLIFISH_CONTENT_SOURCE", &c.Content.Source)
	setString("ENGLIFISH_CONTENT_DIR", &c.Content.Dir)
	setString("ENGLIFISH_CONTENT_URL", &c.Content.BaseURL)
	setString("ENGLIFISH_DB", &c.DB.Path)
	setString("ENGLIFISH_SERVER_ADDR", &c.Server.Addr)
	setString("ENGLIFISH_LOG_LEVEL", &c.Log.Level)
	setString("ENGLIFISH_LOG_FORMAT", &c.Log.Format)
	setString("ENGLIFISH_LOG_FILE", &c.Log.File)
	setString("ENGLIFISH_LLM_PROVIDER", &c.LLM.Provider)

	if v := os.Getenv("ENGLIFISH_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}

	if v := os.Getenv("ENGLIFISH_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ENGLIFISH_MAX_ATTEMPTS: %w", err)
		}
		c.Quiz.MaxAttempts = n
	}
	for key, dst := range map[string]*bool{
		"ENGLIFISH_SHUFFLE":     &c.Quiz.Shuffle,
		"ENGLIFISH_LLM_ENABLED": &c.LLM.Enabled,
	} {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	// A content dir without an explicit source means files.
	if c.Content.Dir != "" && c.Content.Source == SourceBundled && os.Getenv("ENGLIFISH_CONTENT_SOURCE") == "" {
		c.Content.Source = SourceFile
	}
	return nil
}
