// Package cmd provides the root command and CLI setup for stringscan.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	"stringscan.dev/pkg/stringscan/internal/controller"
	"stringscan.dev/pkg/stringscan/internal/domain"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var textDecoder adapter.TextDecoder
var resultStore adapter.ResultStore
var discovery domain.FileDiscovery
var ui controller.UI

// workflow overrides the configured workflow when set.
var workflow domain.Workflow

// stdoutIsTTY reports whether stdout is an interactive terminal.
var stdoutIsTTY = func() bool {
	return adapter.IsTTY(os.Stdout)
}

var (
	parallelFlag      int
	excludePatterns   []string
	extensionsFlag    []string
	localizeFuncsFlag []string
	strictFlag        bool
	relativeFlag      bool
	noWriteFlag       bool
	outputFlag        string
	formatFlag        string
	logFileFlag       string
	verboseFlag       bool
)

func init() {
	configureRootFlags(rootCmd)

	// Shared dependencies; the syntax stages depend on flags and are built per run.
	ui = controller.NewUI(rootCmd, adapter.IsTTY(os.Stderr))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	textDecoder = adapter.NewBOMTextDecoder()
	resultStore = adapter.NewFileResultStore(fsAdapter)
	discovery = domain.NewFileDiscovery(fsAdapter)
}

const rootLongDescription = `stringscan audits the string and regex literals of Swift, Objective-C
and C header sources. It walks a project directory, skips dependency, test
and build folders, parses every source file concurrently and records each
literal with its position and whether it is wrapped in a localization call.

Results are written to <root>/` + domain.ResultsFileName + ` unless --output or
--no-write is given. When stdout is not a terminal the results are also
printed there, so the tool can feed a pipeline.`

const listLongDescription = `List the source files a scan of root would parse (default: current directory).`

// rootCmd represents the base command, which scans a project.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "stringscan [root]",
		Short:         "Audit string literals in Swift and Objective-C projects",
		Long:          rootLongDescription,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
			reportConfigReadError()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			scanArgs, err := scanArgsFromConfig(parseRoot(args))
			if err != nil {
				return err
			}

			if !stdoutIsTTY() {
				scanArgs.Payload = cmd.OutOrStdout()
			}

			_, err = currentWorkflow().Scan(cmd.Context(), scanArgs)

			return err
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude paths containing this fragment (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringArrayVar(&extensionsFlag, extensionFlagName, viper.GetStringSlice(scanExtensionsKey), "source file extension to scan (can be repeated)")
	bindFlagToConfig(flags.Lookup(extensionFlagName), scanExtensionsKey)

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	local := cmd.Flags()

	local.IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(scanParallelKey), "number of files parsed in parallel (0 = one per CPU)")
	bindFlagToConfig(local.Lookup(parallelFlagName), scanParallelKey)

	local.StringArrayVar(&localizeFuncsFlag, localizeFuncFlagName, viper.GetStringSlice(localizationFunctionsKey), "function whose first argument counts as localized (can be repeated)")
	bindFlagToConfig(local.Lookup(localizeFuncFlagName), localizationFunctionsKey)

	local.BoolVar(&strictFlag, strictFlagName, viper.GetBool(scanStrictKey), "skip Swift files with any syntax error instead of scanning what parsed")
	bindFlagToConfig(local.Lookup(strictFlagName), scanStrictKey)

	local.BoolVar(&relativeFlag, relativeFlagName, viper.GetBool(outputRelativePathsKey), "report files relative to the scanned root")
	bindFlagToConfig(local.Lookup(relativeFlagName), outputRelativePathsKey)

	local.BoolVar(&noWriteFlag, noWriteFlagName, viper.GetBool(outputNoWriteKey), "do not write a results file")
	bindFlagToConfig(local.Lookup(noWriteFlagName), outputNoWriteKey)

	local.StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputFileKey), "results file path (default <root>/"+domain.ResultsFileName+")")
	bindFlagToConfig(local.Lookup(outputFlagName), outputFileKey)

	local.StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(outputFormatKey), "results format: json, csv or msgpack (default from --output extension)")
	bindFlagToConfig(local.Lookup(formatFlagName), outputFormatKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// currentWorkflow builds the scan pipeline from the effective configuration.
func currentWorkflow() domain.Workflow {
	if workflow != nil {
		return workflow
	}

	syntaxAdapter := adapter.NewTreeSitterSyntaxAdapter(adapter.WithStrictSyntax(viper.GetBool(scanStrictKey)))
	extractor := domain.NewLiteralExtractor(syntaxAdapter, viper.GetStringSlice(localizationFunctionsKey)...)
	worker := domain.NewParseWorker(fsAdapter, textDecoder, syntaxAdapter, extractor)

	return domain.NewWorkflow(
		fsAdapter,
		resultStore,
		ui,
		discovery,
		domain.NewScanner(fsAdapter, discovery, worker),
	)
}

func scanArgsFromConfig(root m.Path) (domain.ScanArgs, error) {
	output := m.Path(viper.GetString(outputFileKey))

	format, err := resolveFormat(viper.GetString(outputFormatKey), output)
	if err != nil {
		return domain.ScanArgs{}, err
	}

	return domain.ScanArgs{
		Root:          root,
		Discovery:     discoveryOptions(),
		Parallel:      viper.GetInt(scanParallelKey),
		RelativePaths: viper.GetBool(outputRelativePathsKey),
		Output:        output,
		Format:        format,
		NoWrite:       viper.GetBool(outputNoWriteKey),
	}, nil
}

// resolveFormat prefers an explicit format, then the output file extension.
func resolveFormat(name string, output m.Path) (adapter.Format, error) {
	if name != "" {
		return adapter.ParseFormat(name)
	}

	if output != "" {
		return adapter.FormatForPath(output), nil
	}

	return adapter.FormatJSON, nil
}

func parseRoot(args []string) m.Path {
	if len(args) == 0 || args[0] == "" {
		return m.Path(".")
	}

	return m.Path(args[0])
}
