package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/config"
	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/explain"
	"github.com/englifish/englifish/internal/llm"
	"github.com/englifish/englifish/internal/logging"
	"github.com/englifish/englifish/internal/session"
	"github.com/englifish/englifish/internal/store"
)

// loadConfig resolves the configuration and applies the flags the user
// set explicitly, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{Path: path})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("content-dir") {
		cfg.Content.Dir, _ = flags.GetString("content-dir")
		if !flags.Changed("source") {
			cfg.Content.Source = config.SourceFile
		}
	}
	if flags.Changed("content-url") {
		cfg.Content.BaseURL, _ = flags.GetString("content-url")
		if !flags.Changed("source") {
			cfg.Content.Source = config.SourceHTTP
		}
	}
	if flags.Changed("source") {
		cfg.Content.Source, _ = flags.GetString("source")
	}
	if flags.Changed("db") {
		cfg.DB.Path, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("max-attempts") {
		cfg.Quiz.MaxAttempts, _ = flags.GetInt("max-attempts")
	}
	if noShuffle, _ := flags.GetBool("no-shuffle"); noShuffle {
		cfg.Quiz.Shuffle = false
	}
	if flags.Changed("no-tutor") {
		cfg.LLM.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cliLogger logs to w, normally stderr.
func cliLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(w, cfg.Log.Level, cfg.Log.Format)
}

// tuiLogger logs to the configured file since the TUI owns the terminal.
// The returned closer must be called on exit.
func tuiLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	path := cfg.Log.File
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "englifish.log")
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(f, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f.Close, nil
}

// openStore opens the catalog database from config, falling back to the
// default data path.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.DB.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openSource picks the content source named by the config. st is only
// used for the store source and may be nil otherwise.
func openSource(cfg *config.Config, st *store.Store, logger *slog.Logger) (content.Source, error) {
	switch cfg.Content.Source {
	case config.SourceFile:
		src, err := content.NewDirSource(cfg.Content.Dir)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceHTTP:
		opts := content.DefaultHTTPOptions()
		opts.Logger = logger
		src, err := content.NewHTTPSource(cfg.Content.BaseURL, opts)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceStore:
		if st == nil {
			return nil, fmt.Errorf("content source %q needs a database", cfg.Content.Source)
		}
		return st.Catalog(), nil
	default:
		return content.NewFSSource(content.Bundled()), nil
	}
}

// env bundles what every content-reading command needs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	lib    *content.Library
}

// Close releases the database, if one was opened.
func (e *env) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// newEnv builds the library for cfg. The database is opened when the
// content lives there or when withStore is set.
func newEnv(cfg *config.Config, logger *slog.Logger, withStore bool) (*env, error) {
	e := &env{cfg: cfg, logger: logger}
	if withStore || cfg.Content.Source == config.SourceStore {
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		e.store = st
	}
	src, err := openSource(cfg, e.store, logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.lib = content.NewLibrary(src, logger)
	return e, nil
}

// newController wires the session controller with the configured policy.
func newController(e *env) *session.Controller {
	var sh exercise.Shuffler = exercise.NoShuffle
	if e.cfg.Quiz.Shuffle {
		seed := uint64(time.Now().UnixNano())
		sh = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return session.NewController(e.lib, session.Options{
		Registry: evaluate.NewRegistry(e.cfg.Policy()),
		Shuffler: sh,
		Logger:   e.logger,
	})
}

// newExplainer returns nil when explanations are off or no provider key
// is available.
func newExplainer(ctx context.Context, e *env) *explain.Service {
	if !e.cfg.LLM.Enabled {
		return nil
	}
	llmCfg, ok := llm.Resolve(e.cfg.LLM.Provider, e.cfg.LLM.Model)
	if !ok {
		e.logger.Info("no llm provider configured, explanations disabled")
		return nil
	}
	var repo store.EventRepo
	if e.store != nil {
		repo = e.store.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, llmCfg, e.logger, repo)
	if err != nil {
		e.logger.Warn("llm provider unavailable", "provider", llmCfg.Provider, "error", err)
		return nil
	}
	e.logger.Info("explanations enabled", "provider", llmCfg.Provider)
	return explain.NewService(provider, explain.DefaultConfig(), e.logger)
}
