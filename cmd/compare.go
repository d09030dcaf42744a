package cmd

import (
	"github.com/spf13/cobra"

	"stringscan.dev/pkg/stringscan/internal/domain"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

// compareCmd represents the compare command.
var compareCmd = newCompareCmd()

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Diff two results files",
		Long: `Compare two results files and print a unified diff of their occurrences.
Files may be JSON or MessagePack; they are compared by content, so the same
results in different formats are equal. Exits non-zero when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return currentWorkflow().Compare(cmd.Context(), domain.CompareArgs{
				Old: m.Path(args[0]),
				New: m.Path(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
