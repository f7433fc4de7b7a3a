// Package cmd contains the command-line interface definition and execution logic for the ESPHome gate.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/esphome-gate/internal/actions"
	"github.com/nicholas-fedor/esphome-gate/internal/config"
	"github.com/nicholas-fedor/esphome-gate/internal/flags"
	"github.com/nicholas-fedor/esphome-gate/internal/logging"
	"github.com/nicholas-fedor/esphome-gate/internal/meta"
	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/handoff"
	"github.com/nicholas-fedor/esphome-gate/pkg/metrics"
	"github.com/nicholas-fedor/esphome-gate/pkg/notifications"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// errReadFlagFailed indicates a flag could not be read while building the run configuration.
var errReadFlagFailed = errors.New("failed to read flag")

// RunConfig is everything a single gate run needs.
//
// Pipeline and Executor may be left zero; production collaborators are used then.
type RunConfig struct {
	Config           types.Configuration
	OptionsFile      string
	Backend          string
	CLI              string
	Updater          []string
	MetricsTextfile  string
	NotificationURLs []string
	NotificationTpl  string
	NotificationTtl  string
	AddonVersion     string
	Pipeline         actions.Options
	Executor         *handoff.Executor
}

// rootCmd is the gate's only command.
var rootCmd = NewRootCommand()

// NewRootCommand creates the root command for the gate CLI.
//
// Positional arguments, usually given after "--", form the updater command.
//
// Returns:
//   - *cobra.Command: Root command, ready for flag registration and execution.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "esphome-gate [flags] [-- updater command...]",
		Short: "Verifies Docker access to ESPHome before starting the updater",
		Long: "\nESPHome Gate checks that the Docker socket, CLI, daemon and ESPHome container are usable," +
			"\nthen replaces itself with the ESPHome selective updater. Any failed check exits with status 1.",
		Run:    run,
		PreRun: preRun,
		Args:   cobra.ArbitraryArgs,
	}
}

// init registers command-line flags for the root command during package initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterRuntimeFlags(rootCmd)
	flags.RegisterSystemFlags(rootCmd)
}

// Execute runs the root command and logs any error that escapes it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Failed to execute root command")
	}
}

// preRun applies the logging flags before anything is written.
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.PersistentFlags()
	flags.ProcessFlagAliases(flagsSet)

	if err := flags.SetupLogging(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}
}

// run builds the run configuration, runs the gate and exits with its code.
//
// A successful handoff replaces the process, so run only returns to the
// caller if the gate aborted or the updater could not be started.
func run(c *cobra.Command, args []string) {
	cfg, err := readRunConfig(c, args, afero.NewOsFs())
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runMain(ctx, cfg)

	stop()
	logrus.StandardLogger().Exit(code)
}

// readRunConfig combines the options file, flags and environment into a RunConfig.
//
// Parameters:
//   - c: Command with parsed flags.
//   - args: Positional arguments, used as the updater command when present.
//   - fs: Filesystem the options file is read from.
//
// Returns:
//   - RunConfig: Configuration for runMain.
//   - error: Non-nil if a flag cannot be read or is invalid.
func readRunConfig(c *cobra.Command, args []string, fs afero.Fs) (RunConfig, error) {
	flagsSet := c.PersistentFlags()

	optionsFile, err := flagsSet.GetString("options-file")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	fromFile, loadErr := config.Load(fs, optionsFile)
	if loadErr != nil {
		logrus.WithError(loadErr).WithField("options_file", optionsFile).
			Warn("Could not read add-on options, using defaults")
	}

	loaded, err := flags.ApplyOverrides(flagsSet, fromFile)
	if err != nil {
		return RunConfig{}, err
	}

	if loadErr == nil {
		warnDivergentOverrides(optionsFile, fromFile, loaded)
	}

	backend, err := flags.ReadBackend(flagsSet)
	if err != nil {
		return RunConfig{}, err
	}

	cli, err := flagsSet.GetString("docker-cli")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	metricsTextfile, err := flagsSet.GetString("metrics-textfile")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	urls, err := flagsSet.GetStringArray("notification-url")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	notificationTpl, err := flagsSet.GetString("notification-template")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	notificationTtl, err := flagsSet.GetString("notification-title")
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	updater := args
	if len(updater) == 0 {
		updater = handoff.DefaultCommand
	}

	return RunConfig{
		Config:           loaded,
		OptionsFile:      optionsFile,
		Backend:          backend,
		CLI:              cli,
		Updater:          updater,
		MetricsTextfile:  metricsTextfile,
		NotificationURLs: urls,
		NotificationTpl:  notificationTpl,
		NotificationTtl:  notificationTtl,
		AddonVersion:     flags.AddonVersion(),
	}, nil
}

// warnDivergentOverrides warns when a flag or environment override changes a
// value the updater may still read from the options file itself.
func warnDivergentOverrides(optionsFile string, fromFile, effective types.Configuration) {
	clog := logrus.WithField("options_file", optionsFile)

	if fromFile.ContainerIdentifier != effective.ContainerIdentifier {
		clog.WithFields(logrus.Fields{
			"options":  fromFile.ContainerIdentifier,
			"override": effective.ContainerIdentifier,
		}).Warn("Container override differs from the add-on options; the updater only sees it as " +
			handoff.ContainerEnv)
	}

	if fromFile.DryRun != effective.DryRun {
		clog.WithFields(logrus.Fields{
			"options":  fromFile.DryRun,
			"override": effective.DryRun,
		}).Warn("Dry-run override differs from the add-on options; the updater only sees it as " +
			handoff.DryRunEnv)
	}
}

// runMain runs the pipeline and either hands off or reports the abort.
//
// Parameters:
//   - ctx: Context cancelled by SIGINT or SIGTERM.
//   - cfg: Run configuration.
//
// Returns:
//   - int: Exit code; 0 is only returned when a non-replacing executor is injected.
func runMain(ctx context.Context, cfg RunConfig) int {
	log := logrus.NewEntry(logrus.StandardLogger())

	logging.WriteStartupMessage(log, logging.StartupInfo{
		GateVersion:  meta.Version,
		AddonVersion: cfg.AddonVersion,
		Backend:      cfg.Backend,
		OptionsFile:  cfg.OptionsFile,
		Config:       cfg.Config,
		Updater:      cfg.Updater,
	})

	notifier, err := notifications.New(cfg.NotificationURLs, cfg.NotificationTtl, cfg.NotificationTpl)
	if err != nil {
		log.WithError(err).Warn("Notifications disabled")
	}

	options := cfg.Pipeline
	options.CLI = cfg.CLI
	options.Log = log

	if options.Runner == nil {
		options.Runner = container.NewExecRunner()
	}

	if options.RuntimeFactory == nil {
		factory, err := container.NewRuntimeFactory(cfg.Backend, cfg.CLI, options.Runner)
		if err != nil {
			return reportAbort(log, cfg, notifier, types.Result{
				State:  types.StateAborted,
				Config: cfg.Config,
				Abort:  backendAbort(cfg.Backend, err),
			})
		}

		options.RuntimeFactory = factory
	}

	pipeline := actions.NewPipeline(options)

	result := pipeline.Run(ctx, cfg.Config)
	if !result.Proceed() {
		return reportAbort(log, cfg, notifier, result)
	}

	pipeline.CheckConfigDirectory()
	writeMetrics(log, cfg.MetricsTextfile, result)
	logging.WriteBoundaries(log, result)

	executor := cfg.Executor
	if executor == nil {
		executor = handoff.NewExecutor(cfg.Updater)
	}

	if err := executor.Handoff(&result); err != nil {
		result.State = types.StateAborted
		result.Abort = handoff.Abort(executor.Command(), err)

		return reportAbort(log, cfg, notifier, result)
	}

	return 0
}

// reportAbort records an aborted run and returns its exit code.
//
// The metrics textfile is rewritten, the FATAL diagnostic is logged and the
// abort notification is sent, in that order.
func reportAbort(log *logrus.Entry, cfg RunConfig, notifier *notifications.Notifier, result types.Result) int {
	writeMetrics(log, cfg.MetricsTextfile, result)
	logging.WriteDiagnostic(log, result.Abort)

	if err := notifier.NotifyAbort(result); err != nil {
		log.WithError(err).Warn("Failed to send abort notification")
	}

	return result.Abort.ExitCode
}

// backendAbort describes a runtime backend that could not be built.
func backendAbort(backend string, err error) *types.Abort {
	return &types.Abort{
		Stage: types.StageBackend,
		Kind:  types.BackendUnavailable,
		Diagnostic: types.Diagnostic{
			Summary:     fmt.Sprintf("Runtime backend %q is not available", backend),
			Causes:      []string{"The --backend flag or GATE_BACKEND names an unsupported backend"},
			Consequence: "No Docker check was run and the updater was not started",
			Fixes: []string{
				fmt.Sprintf("Use --backend %s or --backend %s", container.BackendCLI, container.BackendAPI),
			},
			Detail: err.Error(),
		},
		ExitCode: types.ExitCodeAbort,
		Err:      err,
	}
}

// writeMetrics records the run in the metrics textfile, if one is configured.
// Failures are logged and never change the outcome of the run.
func writeMetrics(log *logrus.Entry, path string, result types.Result) {
	if path == "" {
		return
	}

	m, err := metrics.New()
	if err != nil {
		log.WithError(err).Warn("Failed to initialize metrics")

		return
	}

	m.Record(result, time.Now())

	if err := m.WriteTextfile(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("Failed to write metrics textfile")

		return
	}

	log.WithField("path", path).Debug("Wrote metrics textfile")
}
