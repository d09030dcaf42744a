package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"stringscan.dev/pkg/stringscan/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "stringscan"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	parallelFlagName     = "parallel"
	excludeFlagName      = "exclude"
	extensionFlagName    = "ext"
	localizeFuncFlagName = "localize-func"
	strictFlagName       = "strict"
	relativeFlagName     = "relative"
	noWriteFlagName      = "no-write"
	outputFlagName       = "output"
	formatFlagName       = "format"
	logFileFlagName      = "log-file"
	verboseFlagName      = "verbose"

	scanParallelKey           = "scan.parallel"
	scanExtensionsKey         = "scan.extensions"
	scanStrictKey             = "scan.strict"
	excludeConfigKey          = "paths.exclude"
	packageExtensionsKey      = "paths.package_extensions"
	localizationFunctionsKey  = "localization.functions"
	outputFileKey             = "output.file"
	outputFormatKey           = "output.format"
	outputRelativePathsKey    = "output.relative_paths"
	outputNoWriteKey          = "output.no_write"
	defaultScanParallel       = 0
	defaultScanStrict         = false
	defaultOutputRelativePath = false

	envPrefix = "STRINGSCAN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".stringscan.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configReadErr is set when a config file exists but could not be read. It is
// logged once the logger is configured.
var configReadErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	configReadErr = readConfigFile()
}

// readConfigFile loads the config file. A missing file is not an error.
func readConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func reportConfigReadError() {
	if configReadErr == nil {
		return
	}

	slog.Warn("Failed to read config file, using defaults", "path", viper.ConfigFileUsed(), "error", configReadErr)
}

func setConfigDefaults() {
	discovery := domain.DefaultDiscoveryOptions()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(scanParallelKey, defaultScanParallel)
	viper.SetDefault(scanExtensionsKey, discovery.Extensions)
	viper.SetDefault(scanStrictKey, defaultScanStrict)
	viper.SetDefault(excludeConfigKey, discovery.Exclude)
	viper.SetDefault(packageExtensionsKey, discovery.PackageExtensions)
	viper.SetDefault(localizationFunctionsKey, domain.DefaultLocalizationFunctions)
	viper.SetDefault(outputFileKey, "")
	viper.SetDefault(outputFormatKey, "")
	viper.SetDefault(outputRelativePathsKey, defaultOutputRelativePath)
	viper.SetDefault(outputNoWriteKey, false)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// discoveryOptions reads the file selection rules from the effective configuration.
func discoveryOptions() domain.DiscoveryOptions {
	return domain.DiscoveryOptions{
		Extensions:        viper.GetStringSlice(scanExtensionsKey),
		Exclude:           viper.GetStringSlice(excludeConfigKey),
		PackageExtensions: viper.GetStringSlice(packageExtensionsKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (-4 is debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points the global slog logger at a rotating log file.
//
// It logs at the configured level, or at Debug when verbose is set.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	logLevel := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
