package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/englifish/englifish/internal/exercise"
)

var errInvalidContent = errors.New("content has errors")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check exercise set files for shape errors",
		Long: `Validate decodes each exercise set file the way the quiz does and
reports every question that would be skipped. It exits non-zero when any
file has an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if !validateFile(out, path) {
					failed++
				}
			}
			if failed > 0 {
				fmt.Fprintf(out, "\n%d of %d files have errors\n", failed, len(args))
				return errInvalidContent
			}
			return nil
		},
	}
}

// validateFile reports on one file and returns whether it is clean.
func validateFile(out io.Writer, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", path, err)
		return false
	}
	id := strings.TrimSuffix(filepath.Base(path), ".json")
	set, skipped, err := exercise.Decode(id, data)
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", path, err)
		for _, se := range skipped {
			fmt.Fprintf(out, "    %v\n", se)
		}
		return false
	}
	if len(skipped) > 0 {
		fmt.Fprintf(out, "✗ %s: %d questions would be skipped\n", path, len(skipped))
		for _, se := range skipped {
			fmt.Fprintf(out, "    %v\n", se)
		}
		return false
	}
	fmt.Fprintf(out, "✓ %s: %d questions, %d points\n", path, len(set.Questions), set.TotalFlat())
	return true
}
