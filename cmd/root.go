// Package cmd holds the englifish command line.
package cmd

import (
	"github.com/spf13/cobra"
)

// Execute runs the command line with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "englifish",
		Short: "English practice quizzes in the terminal",
		Long: `Englifish runs English exercise sets (multiple choice, true/false,
fill in the blanks, matching, word ordering, short answers and reading
comprehension) in a terminal UI, with a grammar reference alongside.

Explanations for missed answers are fetched from an LLM when one of
GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY
(or the matching ENGLIFISH_* variable) is set.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, "")
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ~/.config/englifish/config.yaml)")
	pf.String("source", "", "Content source: bundled, file, http or store")
	pf.String("content-dir", "", "Read content from this directory")
	pf.String("content-url", "", "Read content from this base URL")
	pf.String("db", "", "Path to SQLite database file (overrides ENGLIFISH_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Int("max-attempts", 0, "Attempts allowed on short answers")
	pf.Bool("no-shuffle", false, "Keep questions and options in authored order")
	pf.Bool("no-tutor", false, "Do not ask an LLM to explain missed answers")

	root.AddCommand(
		newPlayCmd(),
		newSetsCmd(),
		newGrammarCmd(),
		newValidateCmd(),
		newImportCmd(),
		newServeCmd(),
		newLLMCmd(),
		newVersionCmd(),
	)
	return root
}
