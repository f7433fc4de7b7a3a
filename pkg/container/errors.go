package container

import (
	"errors"
)

// Errors for endpoint handling in endpoint.go.
var (
	// errInvalidEndpoint indicates a socket path could not be turned into a valid DOCKER_HOST value.
	errInvalidEndpoint = errors.New("invalid runtime endpoint")
	// errUnsupportedScheme indicates an endpoint that does not point at a unix socket.
	errUnsupportedScheme = errors.New("runtime endpoint is not a unix socket")
	// errUnknownBackend indicates a runtime backend name that is neither "cli" nor "api".
	errUnknownBackend = errors.New("unknown runtime backend")
)

// Errors for command execution in runner.go and cli.go.
var (
	// errCommandFailed indicates a runtime CLI command exited with a non-zero status.
	errCommandFailed = errors.New("command execution failed")
	// errCommandNotStarted indicates a runtime CLI command could not be started at all.
	errCommandNotStarted = errors.New("command could not be started")
	// errEmptyInspectOutput indicates an inspect command succeeded without printing anything.
	errEmptyInspectOutput = errors.New("inspect returned no data")
)

// Errors shared by both backends.
var (
	// errProbeFailed indicates the daemon did not answer the listing probe.
	errProbeFailed = errors.New("failed to list containers")
	// errInspectContainerFailed indicates a failure to inspect a container’s details.
	errInspectContainerFailed = errors.New("failed to inspect container")
	// errContainerNotFound indicates the runtime reported the container as missing.
	errContainerNotFound = errors.New("no such container")
	// errExecFailed indicates a command inside the container could not be run or failed.
	errExecFailed = errors.New("failed to execute command in container")
)

// Errors for exec operations in client.go.
var (
	// errCreateExecFailed indicates a failure to create an exec instance in a container.
	errCreateExecFailed = errors.New("failed to create exec instance")
	// errAttachExecFailed indicates a failure to attach to an exec instance for output capture.
	errAttachExecFailed = errors.New("failed to attach to exec instance")
	// errReadExecOutputFailed indicates a failure to read output from an exec instance.
	errReadExecOutputFailed = errors.New("failed to read exec output")
	// errInspectExecFailed indicates a failure to inspect an exec instance’s status.
	errInspectExecFailed = errors.New("failed to inspect exec instance")
	// errNewClientFailed indicates the Docker SDK client could not be constructed.
	errNewClientFailed = errors.New("failed to initialize Docker client")
)

// IsContainerNotFound reports whether err means the runtime does not know the container.
func IsContainerNotFound(err error) bool {
	return errors.Is(err, errContainerNotFound)
}
