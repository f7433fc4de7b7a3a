// Package cmd contains the command-line interface definition and execution logic for the ESPHome gate.
//
// Key components:
//   - rootCmd: The only command; runs the checks and hands off to the updater.
//   - RunConfig: Options file, flag and environment values for one run.
//
// Usage examples:
//   - Run the CLI from main.go:
//     cmd.Execute()
//   - Start a custom updater after the checks:
//     esphome-gate --dry-run -- python3 /esphome_smart_updater.py
//
// The package integrates the actions, config, flags, handoff, metrics and notifications
// packages, using Cobra for CLI parsing and logrus for logging.
package cmd
