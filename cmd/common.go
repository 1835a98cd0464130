package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/manifest-network/six-cities-client/pkg"
	"github.com/manifest-network/six-cities-client/pkg/api"
	"github.com/manifest-network/six-cities-client/pkg/notify"
)

var (
	validLogLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	validLogLevelsStr = strings.Join(slices.Sorted(maps.Keys(validLogLevels)), "|")
)

// BindGlobalFlags attaches the log level and API client flags to a cobra command.
func BindGlobalFlags(cmd *cobra.Command) {
	defaults := pkg.DefaultClientConfig()
	flags := cmd.PersistentFlags()
	flags.StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", validLogLevelsStr))
	flags.String("base-url", defaults.BaseURL, "API base URL")
	flags.Duration("timeout", defaults.Timeout, "Per-request timeout")
	flags.String("token", "", "Auth token sent in the "+pkg.TokenHeader+" header")
	flags.Uint("max-concurrency", defaults.MaxConcurrency, "Maximum number of concurrent requests")
	flags.Duration("dedup-window", defaults.DedupWindow, "Suppress repeated notifications with the same key for this long (0 disables)")
	if err := viper.BindPFlags(flags); err != nil {
		slog.Error("Failed to bind flags", "error", err)
	}
}

// InitConfig loads config file and environment settings.
func InitConfig(appName string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/." + appName)
	viper.AddConfigPath("/etc/" + appName)

	viper.SetEnvPrefix(strings.ReplaceAll(strings.ToUpper(appName), "-", "_"))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	}
}

// PreRunLogLevel installs a JSON logger at the selected level. Logs go to the
// command's error stream so command output stays machine readable.
func PreRunLogLevel(cmd *cobra.Command, args []string) error {
	levelName := viper.GetString("logLevel")
	level, ok := validLogLevels[levelName]
	if !ok {
		return fmt.Errorf("invalid log level: %s. valid levels: %s", levelName, validLogLevelsStr)
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// TokenFromConfig reads the auth token at request time, so a token changed
// in the config or environment is picked up by the next request.
func TokenFromConfig() (string, bool) {
	token := viper.GetString("token")
	return token, token != ""
}

// NewClient builds the API client from the loaded configuration.
// Notifications are logged and deduplicated.
func NewClient() (*api.Client, pkg.ClientConfig, error) {
	config := pkg.LoadClientConfig()
	if err := config.Validate(); err != nil {
		return nil, config, err
	}

	var notifier notify.Notifier = notify.NewLogNotifier(slog.Default())
	if config.DedupWindow > 0 {
		notifier = notify.NewDeduper(notifier, config.DedupWindow)
	}

	return api.New(config, TokenFromConfig, notifier), config, nil
}

// Execute wraps cobra.Execute with config loading and exit handling.
func Execute(root *cobra.Command, appName string) {
	root.PersistentPreRunE = PreRunLogLevel
	InitConfig(appName)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
