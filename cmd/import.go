package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/content"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Copy a content directory into the local catalog",
		Long: `Import reads every exercise set and grammar topic from dir and stores
them in the SQLite catalog, so they can be played later with --source store
without the directory or network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := cliLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			src, err := content.NewDirSource(args[0])
			if err != nil {
				return err
			}
			lib := content.NewLibrary(src, logger)

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			batch, err := st.Catalog().ImportLibrary(cmd.Context(), lib, args[0], logger)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sets and %d grammar topics (batch %d, %s)\n",
				batch.Sets, batch.Topics, batch.Sequence, batch.ID)
			return nil
		},
	}
}
