package cmd

import (
	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/content"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <set>",
		Short: "Start a quiz straight away",
		Example: `  englifish play present-simple
  englifish play model/past-simple.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := content.ResolveID(args[0])
			if err != nil {
				return err
			}
			return runApp(cmd, id)
		},
	}
}
