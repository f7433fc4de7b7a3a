package handoff

import "errors"

var (
	// errNotProceeding indicates a handoff was requested for an aborted run.
	errNotProceeding = errors.New("pipeline did not pass, refusing to hand off")
	// errEmptyCommand indicates no updater command was configured.
	errEmptyCommand = errors.New("updater command is empty")
	// errUpdaterNotFound indicates the updater executable could not be resolved on PATH.
	errUpdaterNotFound = errors.New("updater executable not found")
	// errExecFailed indicates replacing the process image failed.
	errExecFailed = errors.New("failed to execute updater")
	// errSpawnFailed indicates the updater could not be started as a child process.
	errSpawnFailed = errors.New("failed to start updater")
)
