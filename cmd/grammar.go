package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/grammar"
)

func newGrammarCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "grammar [topic]",
		Short: "List grammar topics or print one as text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				ix, err := e.lib.TopicIndex(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(out, grammar.RenderIndex(ix, grammar.PlainStyles()))
				return nil
			}

			id, err := content.ResolveID(args[0])
			if err != nil {
				return err
			}
			topic, err := e.lib.LoadTopic(cmd.Context(), id)
			if err != nil {
				return err
			}
			width, _ := cmd.Flags().GetInt("width")
			fmt.Fprint(out, grammar.Render(topic, grammar.PlainStyles(), width))
			return nil
		},
	}
	c.Flags().Int("width", 80, "Wrap width for the rendered topic")
	return c
}
