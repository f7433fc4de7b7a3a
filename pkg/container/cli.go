package container

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/distribution/reference"
	"github.com/sirupsen/logrus"

	dockerContainer "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// DefaultCLI is the runtime CLI the gate and the updater shell out to.
const DefaultCLI = "docker"

// BackendCLI names the CLI backend.
const BackendCLI = "cli"

// LookPathFunc resolves an executable on PATH, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// ResolveCLI confirms the runtime CLI is present and asks it for its version.
//
// Absence of the executable is returned as an error. A failing version query is
// not: the version then degrades to types.UnknownVersion.
//
// Parameters:
//   - ctx: Context for the version command.
//   - binary: CLI name or path (usually "docker").
//   - lookPath: PATH resolver; exec.LookPath when nil.
//   - runner: Command runner used for the version query.
//
// Returns:
//   - types.ClientInfo: Resolved path and version.
//   - error: Non-nil if the executable cannot be found.
func ResolveCLI(
	ctx context.Context,
	binary string,
	lookPath LookPathFunc,
	runner Runner,
) (types.ClientInfo, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(binary)
	if err != nil {
		logrus.WithError(err).WithField("binary", binary).Debug("Runtime CLI not found on PATH")

		return types.ClientInfo{}, fmt.Errorf("%w: %w", errCommandNotStarted, err)
	}

	info := types.ClientInfo{Path: path, Version: types.UnknownVersion}

	out, err := runner.Run(ctx, nil, path, "--version")
	if err != nil {
		logrus.WithError(err).WithField("path", path).Debug("Runtime CLI version query failed")

		return info, nil
	}

	if version := firstLine(out.Stdout); version != "" {
		info.Version = version
	}

	return info, nil
}

// CLI is the Runtime backend that shells out to the runtime CLI.
//
// Every invocation carries DOCKER_HOST for the bound endpoint in the child
// environment; the gate's own environment is left untouched.
type CLI struct {
	binary   string
	endpoint types.RuntimeEndpoint
	runner   Runner
}

// NewCLI binds the CLI backend to an endpoint.
func NewCLI(binary string, endpoint types.RuntimeEndpoint, runner Runner) *CLI {
	if binary == "" {
		binary = DefaultCLI
	}

	if runner == nil {
		runner = NewExecRunner()
	}

	return &CLI{binary: binary, endpoint: endpoint, runner: runner}
}

// Name implements types.Runtime.
func (c *CLI) Name() string {
	return BackendCLI
}

func (c *CLI) run(ctx context.Context, args ...string) (Output, error) {
	return c.runner.Run(ctx, []string{c.endpoint.EnvEntry()}, c.binary, args...)
}

// Probe runs "docker ps" against the endpoint.
func (c *CLI) Probe(ctx context.Context) error {
	out, err := c.run(ctx, "ps", "--quiet")
	if err != nil {
		return &ProbeError{
			Cause:  ClassifyDaemonText(string(out.Stderr) + " " + err.Error()),
			Stderr: strings.TrimSpace(string(out.Stderr)),
			Err:    fmt.Errorf("%w: %w", errProbeFailed, err),
		}
	}

	return nil
}

// Inspect runs "docker inspect --type container" for the identifier.
//
// Parameters:
//   - ctx: Context for the command.
//   - identifier: Container name or ID.
//
// Returns:
//   - types.ContainerDescriptor: Raw output plus best-effort ID, image and state.
//   - error: Non-nil if the container cannot be inspected.
func (c *CLI) Inspect(ctx context.Context, identifier string) (types.ContainerDescriptor, error) {
	clog := logrus.WithField("container", identifier)

	out, err := c.run(ctx, "inspect", "--type", "container", identifier)
	if err != nil {
		stderr := strings.ToLower(string(out.Stderr))
		if strings.Contains(stderr, "no such container") || strings.Contains(stderr, "no such object") {
			clog.Debug("Runtime reported container as missing")

			return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf(
				"%w: %s: %w",
				errContainerNotFound,
				identifier,
				err,
			)
		}

		return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf(
			"%w: %s: %w",
			errInspectContainerFailed,
			identifier,
			err,
		)
	}

	if len(strings.TrimSpace(string(out.Stdout))) == 0 {
		return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf(
			"%w: %s",
			errEmptyInspectOutput,
			identifier,
		)
	}

	descriptor := describeFromJSON(identifier, out.Stdout)
	clog.WithFields(logrus.Fields{
		"id":    descriptor.ID.ShortID(),
		"image": descriptor.Image,
		"state": descriptor.State,
	}).Debug("Inspected container")

	return descriptor, nil
}

// Exec runs "docker exec <identifier> <command...>" and returns stdout.
func (c *CLI) Exec(ctx context.Context, identifier string, command ...string) (string, error) {
	args := append([]string{"exec", identifier}, command...)

	out, err := c.run(ctx, args...)
	if err != nil {
		return string(out.Stdout), fmt.Errorf("%w: %w", errExecFailed, err)
	}

	return string(out.Stdout), nil
}

// describeFromJSON builds a descriptor from "docker inspect" output.
//
// Parsing is best-effort: output that does not decode still yields an
// existing descriptor carrying the raw bytes.
func describeFromJSON(identifier string, raw []byte) types.ContainerDescriptor {
	descriptor := types.ContainerDescriptor{
		Identifier: identifier,
		Exists:     true,
		Raw:        raw,
	}

	var inspected []dockerContainer.InspectResponse
	if err := json.Unmarshal(raw, &inspected); err != nil || len(inspected) == 0 {
		logrus.WithError(err).Trace("Inspect output not decodable, keeping raw form only")

		return descriptor
	}

	return enrichDescriptor(descriptor, inspected[0])
}

// enrichDescriptor copies the fields the gate logs out of an inspect response.
func enrichDescriptor(
	descriptor types.ContainerDescriptor,
	inspected dockerContainer.InspectResponse,
) types.ContainerDescriptor {
	if inspected.ContainerJSONBase != nil {
		descriptor.ID = types.ContainerID(inspected.ID)

		if inspected.State != nil {
			descriptor.State = inspected.State.Status
		}
	}

	if inspected.Config != nil {
		descriptor.Image = familiarImage(inspected.Config.Image)
	}

	return descriptor
}

// familiarImage shortens an image reference to its familiar form
// ("docker.io/library/foo:latest" becomes "foo:latest"). Unparseable
// references are returned as-is.
func familiarImage(image string) string {
	if image == "" {
		return ""
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image
	}

	return reference.FamiliarString(reference.TagNameOnly(named))
}
