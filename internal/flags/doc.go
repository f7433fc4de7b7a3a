// Package flags manages command-line flags and environment variables for the ESPHome gate.
// It configures the checked container, the runtime backend, logging, metrics and notifications
// via Cobra and Viper.
//
// Key components:
//   - RegisterRuntimeFlags: Adds the container, dry-run, options-file and backend flags.
//   - RegisterSystemFlags: Adds logging, metrics and notification flags.
//   - ApplyOverrides: Lets explicit flags and GATE_* variables win over the options file.
//   - SetupLogging: Configures logrus based on flags.
//
// Usage example:
//
//	cmd := &cobra.Command{}
//	flags.SetDefaults()
//	flags.RegisterRuntimeFlags(cmd)
//	flags.RegisterSystemFlags(cmd)
//	err := flags.SetupLogging(cmd.PersistentFlags())
//	if err != nil {
//	    logrus.WithError(err).Fatal("Logging setup failed")
//	}
//
// The package integrates with Cobra for flag parsing, Viper for environment variable binding,
// and logrus for logging configuration errors.
package flags
