// Package flags manages command-line flags and environment variables for the ESPHome gate.
package flags

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nicholas-fedor/esphome-gate/internal/config"
	"github.com/nicholas-fedor/esphome-gate/internal/util"
	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errSetFlagFailed indicates a failure to read or set a flag's value.
var errSetFlagFailed = errors.New("failed to set flag value")

// errInvalidBackend indicates a --backend value other than "cli" or "api".
var errInvalidBackend = errors.New("invalid runtime backend specified")

// Environment keys read by the gate.
const (
	envOptionsFile     = "GATE_OPTIONS_FILE"
	envContainer       = "GATE_ESPHOME_CONTAINER"
	envDryRun          = "GATE_DRY_RUN"
	envBackend         = "GATE_BACKEND"
	envDockerCLI       = "GATE_DOCKER_CLI"
	envMetricsTextfile = "GATE_METRICS_TEXTFILE"
	envNotificationURL = "GATE_NOTIFICATION_URL"
	envNotificationTpl = "GATE_NOTIFICATION_TEMPLATE"
	envNotificationTtl = "GATE_NOTIFICATION_TITLE"
	envLogFormat       = "GATE_LOG_FORMAT"
	envLogLevel        = "GATE_LOG_LEVEL"
	envDebug           = "GATE_DEBUG"
	envTrace           = "GATE_TRACE"
	envNoColor         = "NO_COLOR"
	envAddonVersion    = "ADDON_VERSION"
)

// RegisterRuntimeFlags adds the flags that select and configure what the gate checks.
func RegisterRuntimeFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.String(
		"options-file",
		envString(envOptionsFile),
		"Add-on options file holding esphome_container and dry_run")

	flags.StringP(
		"esphome-container",
		"c",
		envString(envContainer),
		"Name or ID of the ESPHome container; overrides the options file. "+
			"The updater receives the override only as ESPHOME_CONTAINER")

	flags.Bool(
		"dry-run",
		envBool(envDryRun),
		"Pass dry-run mode to the updater; overrides the options file. "+
			"The updater receives the override only as DRY_RUN")

	flags.StringP(
		"backend",
		"b",
		envString(envBackend),
		"Runtime backend used for the checks. Possible values: cli, api")

	flags.String(
		"docker-cli",
		envString(envDockerCLI),
		"Runtime CLI that must be present on PATH")
}

// RegisterSystemFlags adds flags that control logging, metrics and notifications.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.String(
		"metrics-textfile",
		envString(envMetricsTextfile),
		"Write gate metrics in Prometheus text format to this file")

	flags.StringArray(
		"notification-url",
		envStringSlice(envNotificationURL),
		"Shoutrrr URL notified when a check aborts the gate")

	flags.String(
		"notification-template",
		envString(envNotificationTpl),
		"Notification template name (default, summary, porcelain.v1.stages, json.v1) or custom template text")

	flags.String(
		"notification-title",
		envString(envNotificationTtl),
		"Title passed to notification services that support one")

	flags.StringP(
		"log-format",
		"l",
		envString(envLogFormat),
		"Sets what logging format to use for console output. Possible values: Auto, LogFmt, Pretty, JSON")

	flags.BoolP(
		"debug",
		"d",
		envBool(envDebug),
		"Enable debug mode with verbose logging")

	flags.Bool(
		"trace",
		envBool(envTrace),
		"Enable trace mode with very verbose logging - caution, exposes raw runtime output")

	// https://no-color.org/
	flags.Bool(
		"no-color",
		viper.IsSet(envNoColor),
		"Disable ANSI color escape codes in log output")

	flags.String(
		"log-level",
		envString(envLogLevel),
		"The maximum log level that will be written to STDERR. Possible values: panic, fatal, error, warn, info, debug or trace")
}

// envString retrieves a string value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envStringSlice retrieves a string slice from an environment variable via Viper.
// It binds the key to the environment and returns its values.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	return viper.GetStringSlice(key)
}

// envBool retrieves a boolean value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}

// SetDefaults configures default values for environment variables.
// It ensures consistent fallback behavior when flags or environment variables are unset.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault(envOptionsFile, config.DefaultOptionsFile)
	viper.SetDefault(envBackend, container.BackendCLI)
	viper.SetDefault(envDockerCLI, container.DefaultCLI)
	viper.SetDefault(envNotificationURL, []string{})
	viper.SetDefault(envLogLevel, "info")
	viper.SetDefault(envLogFormat, "auto")
}

// AddonVersion returns the add-on version the Supervisor exposes, or an empty string.
func AddonVersion() string {
	return envString(envAddonVersion)
}

// ProcessFlagAliases maps the --debug and --trace helpers onto --log-level.
func ProcessFlagAliases(flags *pflag.FlagSet) {
	if flagIsEnabled(flags, "debug") {
		if err := flags.Set("log-level", "debug"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}

	if flagIsEnabled(flags, "trace") {
		if err := flags.Set("log-level", "trace"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}
}

// ApplyOverrides replaces options-file values with explicitly given flags or environment variables.
//
// A value only overrides the file when the flag was set on the command line or
// its GATE_* variable is present; flag defaults never do.
//
// Parameters:
//   - flags: Parsed flag set.
//   - cfg: Configuration loaded from the options file.
//
// Returns:
//   - types.Configuration: Configuration with overrides applied.
//   - error: Non-nil if a flag cannot be read.
func ApplyOverrides(flags *pflag.FlagSet, cfg types.Configuration) (types.Configuration, error) {
	if flags.Changed("esphome-container") || viper.IsSet(envContainer) {
		identifier, err := flags.GetString("esphome-container")
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}

		if identifier = util.NormalizeContainerName(identifier); identifier != "" {
			cfg.ContainerIdentifier = identifier
		}
	}

	if flags.Changed("dry-run") || viper.IsSet(envDryRun) {
		dryRun, err := flags.GetBool("dry-run")
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}

		cfg.DryRun = dryRun
	}

	return cfg, nil
}

// ReadBackend returns the validated --backend value.
func ReadBackend(flags *pflag.FlagSet) (string, error) {
	backend, err := flags.GetString("backend")
	if err != nil {
		return "", fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return container.BackendCLI, nil
	}

	if !slices.Contains(container.Backends, backend) {
		return "", fmt.Errorf("%w: %q", errInvalidBackend, backend)
	}

	return backend, nil
}

// SetupLogging configures the global logger based on log-related flags.
// It sets the log format and level, returning an error for invalid configurations.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter based on the specified format and color preference.
// It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto", "":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// flagIsEnabled checks if a boolean flag is set to true.
// It exits with a fatal error if the flag is not defined.
func flagIsEnabled(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	if err != nil {
		logrus.Fatalf("The flag %q is not defined", name)
	}

	return value
}
