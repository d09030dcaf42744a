package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const shortRevisionLength = 12

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stringscan build",
		Long:  "Print the stringscan release, the Go toolchain and the commit it was built from.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()

			for _, line := range buildInfoLines(info) {
				cmd.Println(line)
			}
		},
	}
}

// buildInfoLines describes a binary from its embedded build information.
func buildInfoLines(info *debug.BuildInfo) []string {
	if info == nil {
		return []string{"stringscan (unknown build)"}
	}

	release := info.Main.Version
	if release == "" {
		release = "(devel)"
	}

	lines := []string{"stringscan " + release, "go " + info.GoVersion}

	var revision, committed string

	dirty := false

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			committed = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return lines
	}

	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}

	if dirty {
		revision += "-dirty"
	}

	commit := "commit " + revision
	if committed != "" {
		commit = fmt.Sprintf("%s (%s)", commit, committed)
	}

	return append(lines, commit)
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
