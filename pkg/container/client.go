package container

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/docker/go-connections/sockets"
	"github.com/sirupsen/logrus"

	cerrdefs "github.com/containerd/errdefs"
	dockerContainer "github.com/docker/docker/api/types/container"
	dockerClient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// BackendAPI names the Docker Engine API backend.
const BackendAPI = "api"

// client is the Runtime backend that talks to the Docker Engine API directly.
//
// It wraps the Docker API client bound to a single endpoint.
type client struct {
	api      dockerClient.APIClient
	endpoint types.RuntimeEndpoint
}

// NewClient initializes an API backend for the endpoint.
//
// The HTTP transport is dialed at the endpoint's socket explicitly; no
// DOCKER_* variable from the gate's environment is consulted.
//
// Parameters:
//   - endpoint: Unix endpoint selected by the pipeline.
//
// Returns:
//   - types.Runtime: Initialized backend.
//   - error: Non-nil if the client cannot be built.
func NewClient(endpoint types.RuntimeEndpoint) (types.Runtime, error) {
	socket := endpoint.SocketPath()
	if socket == "" {
		return nil, fmt.Errorf("%w: %s", errUnsupportedScheme, endpoint)
	}

	transport := &http.Transport{}
	if err := sockets.ConfigureTransport(transport, "unix", string(socket)); err != nil {
		return nil, fmt.Errorf("%w: %w", errNewClientFailed, err)
	}

	cli, err := dockerClient.NewClientWithOpts(
		dockerClient.WithHTTPClient(&http.Client{Transport: transport}),
		dockerClient.WithHost(string(endpoint)),
		dockerClient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errNewClientFailed, err)
	}

	logrus.WithField("endpoint", endpoint).Debug("Initialized Docker client")

	return &client{api: cli, endpoint: endpoint}, nil
}

// Name implements types.Runtime.
func (c *client) Name() string {
	return BackendAPI
}

// Probe lists running containers as a lightweight liveness check.
//
// Returns:
//   - error: A *ProbeError if the daemon did not answer, nil on success.
func (c *client) Probe(ctx context.Context) error {
	clog := logrus.WithField("endpoint", c.endpoint)

	containers, err := c.api.ContainerList(ctx, dockerContainer.ListOptions{})
	if err != nil {
		clog.WithError(err).Debug("Failed to list containers")

		return &ProbeError{
			Cause: ClassifyDaemonError(err),
			Err:   fmt.Errorf("%w: %w", errProbeFailed, err),
		}
	}

	clog.WithField("count", len(containers)).Debug("Listed containers")

	return nil
}

// Inspect fetches the container's inspection data.
//
// Parameters:
//   - ctx: Context for the request.
//   - identifier: Container name or ID.
//
// Returns:
//   - types.ContainerDescriptor: Raw JSON plus extracted ID, image and state.
//   - error: Non-nil if the container cannot be inspected.
func (c *client) Inspect(ctx context.Context, identifier string) (types.ContainerDescriptor, error) {
	clog := logrus.WithField("container", identifier)

	inspected, raw, err := c.api.ContainerInspectWithRaw(ctx, identifier, false)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			clog.Debug("Container not found")

			return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf(
				"%w: %s: %w",
				errContainerNotFound,
				identifier,
				err,
			)
		}

		clog.WithError(err).Debug("Failed to inspect container")

		return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf(
			"%w: %s: %w",
			errInspectContainerFailed,
			identifier,
			err,
		)
	}

	descriptor := enrichDescriptor(types.ContainerDescriptor{
		Identifier: identifier,
		Exists:     true,
		Raw:        raw,
	}, inspected)

	clog.WithFields(logrus.Fields{
		"id":    descriptor.ID.ShortID(),
		"image": descriptor.Image,
		"state": descriptor.State,
	}).Debug("Inspected container")

	return descriptor, nil
}

// Exec runs a command inside the container and returns its standard output.
//
// The exec instance is created, attached and inspected once; there is no
// polling and no timeout beyond ctx.
func (c *client) Exec(ctx context.Context, identifier string, command ...string) (string, error) {
	clog := logrus.WithFields(logrus.Fields{
		"container": identifier,
		"command":   strings.Join(command, " "),
	})

	clog.Debug("Creating exec instance")

	exec, err := c.api.ContainerExecCreate(ctx, identifier, dockerContainer.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          command,
	})
	if err != nil {
		clog.WithError(err).Debug("Failed to create exec instance")

		return "", fmt.Errorf("%w: %w: %w", errExecFailed, errCreateExecFailed, err)
	}

	stdout, err := c.captureExecOutput(ctx, exec.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errExecFailed, err)
	}

	inspect, err := c.api.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		clog.WithError(err).Debug("Failed to inspect exec instance")

		return stdout, fmt.Errorf("%w: %w: %w", errExecFailed, errInspectExecFailed, err)
	}

	if inspect.ExitCode != 0 {
		return stdout, fmt.Errorf(
			"%w: %w with exit code %d",
			errExecFailed,
			errCommandFailed,
			inspect.ExitCode,
		)
	}

	return stdout, nil
}

// captureExecOutput attaches to an exec instance and demultiplexes its output.
//
// Parameters:
//   - ctx: Context for lifecycle control.
//   - execID: ID of the exec instance.
//
// Returns:
//   - string: Captured standard output.
//   - error: Non-nil if attachment or reading fails, nil on success.
func (c *client) captureExecOutput(ctx context.Context, execID string) (string, error) {
	clog := logrus.WithField("exec_id", execID)

	clog.Debug("Attaching to exec instance")

	response, err := c.api.ContainerExecAttach(ctx, execID, dockerContainer.ExecStartOptions{})
	if err != nil {
		clog.WithError(err).Debug("Failed to attach to exec instance")

		return "", fmt.Errorf("%w: %w", errAttachExecFailed, err)
	}

	defer response.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, response.Reader); err != nil {
		clog.WithError(err).Debug("Failed to read exec output")

		return "", fmt.Errorf("%w: %w", errReadExecOutputFailed, err)
	}

	if stderr.Len() > 0 {
		clog.WithField("stderr", strings.TrimSpace(stderr.String())).Trace("Exec wrote to stderr")
	}

	return stdout.String(), nil
}
