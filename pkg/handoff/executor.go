package handoff

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// Environment keys the updater reads.
const (
	ContainerEnv = "ESPHOME_CONTAINER"
	DryRunEnv    = "DRY_RUN"
	VersionEnv   = "ESPHOME_VERSION"
)

// DefaultCommand starts the ESPHome selective updater.
var DefaultCommand = []string{"python3", "/esphome_smart_updater.py"}

// ExecFunc replaces the process image, with the semantics of execve(2).
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Executor hands a passed pipeline run over to the updater.
type Executor struct {
	command  []string
	lookPath func(file string) (string, error)
	exec     ExecFunc
	environ  func() []string
}

// Option customises an Executor.
type Option func(*Executor)

// WithExec replaces the process-replacement call.
func WithExec(fn ExecFunc) Option {
	return func(e *Executor) { e.exec = fn }
}

// WithLookPath replaces the PATH resolver for the updater executable.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(e *Executor) { e.lookPath = fn }
}

// WithEnviron replaces the source of the inherited environment.
func WithEnviron(fn func() []string) Option {
	return func(e *Executor) { e.environ = fn }
}

// NewExecutor creates an Executor for the updater command.
//
// Parameters:
//   - command: Updater argv; DefaultCommand when empty.
//   - opts: Overrides for tests.
//
// Returns:
//   - *Executor: Configured executor.
func NewExecutor(command []string, opts ...Option) *Executor {
	if len(command) == 0 {
		command = DefaultCommand
	}

	executor := &Executor{
		command:  append([]string(nil), command...),
		lookPath: exec.LookPath,
		exec:     replaceProcess,
		environ:  os.Environ,
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// Command returns the configured updater argv.
func (e *Executor) Command() []string {
	return append([]string(nil), e.command...)
}

// Environment builds the updater's environment from the inherited one.
//
// DOCKER_HOST is set to the run's endpoint here and nowhere else; the
// pass-through keys replace any inherited value.
func (e *Executor) Environment(result types.Result) []string {
	overrides := map[string]string{
		types.DockerHostEnv: result.Endpoint.String(),
		ContainerEnv:        result.Config.ContainerIdentifier,
		DryRunEnv:           strconv.FormatBool(result.Config.DryRun),
		VersionEnv:          result.Version,
	}

	inherited := e.environ()
	env := make([]string, 0, len(inherited)+len(overrides))

	for _, entry := range inherited {
		key, _, _ := strings.Cut(entry, "=")
		if _, replaced := overrides[key]; replaced {
			continue
		}

		env = append(env, entry)
	}

	for _, key := range []string{types.DockerHostEnv, ContainerEnv, DryRunEnv, VersionEnv} {
		env = append(env, key+"="+overrides[key])
	}

	return env
}

// Handoff replaces the gate with the updater.
//
// The result is marked HandedOff before the exec call. With the production
// ExecFunc a successful call never returns.
//
// Parameters:
//   - result: A run that passed every fatal stage.
//
// Returns:
//   - error: Non-nil if the run did not pass or the updater could not be executed.
func (e *Executor) Handoff(result *types.Result) error {
	if !result.Proceed() {
		return fmt.Errorf("%w: %s", errNotProceeding, result.FailedStage())
	}

	if len(e.command) == 0 || e.command[0] == "" {
		return errEmptyCommand
	}

	path, err := e.lookPath(e.command[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errUpdaterNotFound, err)
	}

	env := e.Environment(*result)

	previous := result.State
	result.State = types.StateHandedOff

	logrus.WithFields(logrus.Fields{
		"updater":  strings.Join(e.command, " "),
		"endpoint": result.Endpoint,
		"version":  result.Version,
	}).Info("Handing off to updater")

	if err := e.exec(path, e.command, env); err != nil {
		result.State = previous

		return fmt.Errorf("%w: %w", errExecFailed, err)
	}

	return nil
}
