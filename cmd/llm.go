package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/llm"
)

func newLLMCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "llm",
		Short: "Inspect the tutor's LLM provider and usage",
	}
	c.AddCommand(newLLMStatusCmd(), newLLMUsageCmd())
	return c
}

func newLLMStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which provider explanations would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.LLM.Enabled {
				fmt.Fprintln(out, "Explanations are disabled (llm.enabled is false).")
				return nil
			}
			llmCfg, ok := llm.Resolve(cfg.LLM.Provider, cfg.LLM.Model)
			if !ok {
				fmt.Fprintln(out, "No LLM provider configured. Set GEMINI_API_KEY, OPENAI_API_KEY,")
				fmt.Fprintln(out, "ANTHROPIC_API_KEY or OPENROUTER_API_KEY to enable explanations.")
				return nil
			}
			fmt.Fprintf(out, "Provider: %s\n", llmCfg.Provider)
			return nil
		},
	}
}

func newLLMUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show recorded LLM requests and token totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			requests, in, out, err := st.EventRepo().LLMUsage(cmd.Context())
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			w := cmd.OutOrStdout()
			if requests == 0 {
				fmt.Fprintln(w, "No LLM usage recorded yet.")
				return nil
			}
			fmt.Fprintf(w, "%-10s %10d\n", "Requests", requests)
			fmt.Fprintf(w, "%-10s %10d\n", "Input", in)
			fmt.Fprintf(w, "%-10s %10d\n", "Output", out)
			fmt.Fprintf(w, "%-10s %10d\n", "Total", in+out)
			return nil
		},
	}
}
