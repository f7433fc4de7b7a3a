package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Output is what a finished command left behind.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner starts external commands on behalf of the CLI backend.
//
// Env entries are appended to the inherited environment, so a later entry for
// the same key wins.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) (Output, error)
}

// ExecRunner runs commands with os/exec. It sets no timeout of its own.
type ExecRunner struct{}

// NewExecRunner returns the os/exec backed Runner.
func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

// Run executes name with args and captures both output streams.
//
// Parameters:
//   - ctx: Context whose cancellation kills the command.
//   - env: Extra environment entries (e.g. DOCKER_HOST=...).
//   - name: Executable name or path.
//   - args: Command arguments.
//
// Returns:
//   - Output: Captured stdout, stderr and exit code.
//   - error: Non-nil if the command could not start or exited non-zero.
func (ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) (Output, error) {
	clog := logrus.WithFields(logrus.Fields{
		"command": name,
		"args":    strings.Join(args, " "),
	})

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	clog.Trace("Running runtime command")

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		clog.WithField("exit_code", out.ExitCode).Debug("Runtime command exited with failure")

		return out, fmt.Errorf("%w with exit code %d: %s", errCommandFailed, out.ExitCode, firstLine(out.Stderr))
	}

	clog.WithError(err).Debug("Runtime command could not be started")

	return out, fmt.Errorf("%w: %w", errCommandNotStarted, err)
}

// firstLine returns the first non-empty line of b, trimmed.
func firstLine(b []byte) string {
	for line := range strings.SplitSeq(string(b), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
