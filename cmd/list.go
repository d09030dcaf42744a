package cmd

import (
	"github.com/spf13/cobra"

	"stringscan.dev/pkg/stringscan/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List the source files a scan would parse",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := currentWorkflow().List(cmd.Context(), domain.ListArgs{
				Root:      parseRoot(args),
				Discovery: discoveryOptions(),
			})

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
