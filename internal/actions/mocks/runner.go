package mocks

import (
	"context"
	"errors"
	"os/exec"
	"slices"

	"github.com/nicholas-fedor/esphome-gate/pkg/container"
)

// errExitStatus stands in for a non-zero exit of a runtime CLI command.
var errExitStatus = errors.New("exit status 1")

// RunnerCall is one command started through a MockRunner.
type RunnerCall struct {
	Env  []string
	Name string
	Args []string
}

// RunnerData configures MockRunner results per CLI subcommand (the first argument,
// such as "--version", "ps", "inspect" or "exec") and records every call.
type RunnerData struct {
	Outputs map[string]container.Output
	Fail    map[string]bool
	Calls   []RunnerCall
}

// MockRunner is a container.Runner that never starts a process.
type MockRunner struct {
	Data *RunnerData
}

// CreateMockRunner constructs a MockRunner over data.
func CreateMockRunner(data *RunnerData) MockRunner {
	return MockRunner{Data: data}
}

// Run records the call and returns the configured output for the subcommand.
func (runner MockRunner) Run(_ context.Context, env []string, name string, args ...string) (container.Output, error) {
	runner.Data.Calls = append(runner.Data.Calls, RunnerCall{
		Env:  slices.Clone(env),
		Name: name,
		Args: slices.Clone(args),
	})

	subcommand := ""
	if len(args) > 0 {
		subcommand = args[0]
	}

	out := runner.Data.Outputs[subcommand]
	if runner.Data.Fail[subcommand] {
		out.ExitCode = 1

		return out, errExitStatus
	}

	return out, nil
}

// LookPath returns a LookPathFunc that resolves only the named binary to path.
func LookPath(binary, path string) container.LookPathFunc {
	return func(file string) (string, error) {
		if file != binary {
			return "", exec.ErrNotFound
		}

		return path, nil
	}
}

// MissingLookPath is a LookPathFunc for an image without the CLI.
func MissingLookPath(_ string) (string, error) {
	return "", exec.ErrNotFound
}
