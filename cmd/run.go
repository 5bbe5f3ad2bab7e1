package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/app"
	"github.com/englifish/englifish/internal/config"
)

// runApp builds dependencies and launches the TUI, optionally straight
// into the set startSet.
func runApp(cmd *cobra.Command, startSet string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	e, err := newEnv(cfg, logger, false)
	if err != nil {
		return err
	}
	defer e.Close()

	// LLM calls are recorded in the database when it can be opened.
	if cfg.LLM.Enabled && e.store == nil {
		if st, err := openStore(cfg); err != nil {
			logger.Warn("llm usage will not be recorded", "error", err)
		} else {
			e.store = st
		}
	}

	explainer := newExplainer(cmd.Context(), e)
	if explainer != nil {
		defer explainer.Cancel()
	}

	logger.Info("starting", "version", version, "source", sourceName(cfg), "start_set", startSet)
	return app.Run(app.Options{
		Library:    e.lib,
		Controller: newController(e),
		Explainer:  explainer,
		Logger:     logger,
		StartSet:   startSet,
	})
}

func sourceName(cfg *config.Config) string {
	switch cfg.Content.Source {
	case config.SourceFile:
		return cfg.Content.Dir
	case config.SourceHTTP:
		return cfg.Content.BaseURL
	default:
		return cfg.Content.Source
	}
}
