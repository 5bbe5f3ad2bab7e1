package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/config"
	"github.com/englifish/englifish/internal/content"
)

// cliEnv loads config and content for commands that print to the
// terminal; logs go to stderr.
func cliEnv(cmd *cobra.Command, withStore bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cliLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return newEnv(cfg, logger, withStore)
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the exercise sets in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			sets, err := listSets(cmd, e)
			if errors.Is(err, content.ErrListUnsupported) {
				return fmt.Errorf("the %s source cannot list sets; use play <set> with a known id", e.cfg.Content.Source)
			}
			if err != nil {
				return err
			}

			if len(sets) == 0 {
				fmt.Fprintln(out, "No exercise sets found.")
				return nil
			}

			fmt.Fprintf(out, "%-28s  %-36s  %9s  %6s\n", "ID", "Title", "Questions", "Points")
			fmt.Fprintln(out, strings.Repeat("─", 85))
			for _, s := range sets {
				title := s.Title
				if len(title) > 36 {
					title = title[:33] + "..."
				}
				fmt.Fprintf(out, "%-28s  %-36s  %9d  %6d\n", s.ID, title, s.Questions, s.Total)
			}
			fmt.Fprintf(out, "\n%d sets\n", len(sets))
			return nil
		},
	}
}

// listSets reads the catalog table directly for the store source, which
// skips decoding every stored body.
func listSets(cmd *cobra.Command, e *env) ([]content.SetInfo, error) {
	if e.store == nil || e.cfg.Content.Source != config.SourceStore {
		return e.lib.ListSets(cmd.Context())
	}

	cat := e.store.Catalog()
	if last, err := cat.LastImport(cmd.Context()); err != nil {
		return nil, err
	} else if last != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported from %s on %s\n\n",
			last.Source, last.ImportedAt.Local().Format("2006-01-02 15:04"))
	}

	docs, err := cat.Sets(cmd.Context())
	if err != nil {
		return nil, err
	}
	sets := make([]content.SetInfo, 0, len(docs))
	for _, d := range docs {
		sets = append(sets, content.SetInfo{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Questions:   d.Questions,
			Total:       d.FlatCount,
		})
	}
	return sets, nil
}
