package handoff

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Spawn runs the updater as a child process with the gate's standard streams and
// waits for it.
//
// Parameters:
//   - argv0: Absolute path of the executable.
//   - argv: Full argument vector, argv[0] included.
//   - envv: Complete environment of the child.
//
// Returns:
//   - int: The child's exit code.
//   - error: Non-nil only if the child could not be started.
func Spawn(argv0 string, argv []string, envv []string) (int, error) {
	cmd := exec.Command(argv0)
	cmd.Args = argv
	cmd.Env = envv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("%w: %w", errSpawnFailed, err)
}
