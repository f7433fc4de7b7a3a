package container

import (
	"fmt"
	"strings"

	"github.com/docker/cli/opts"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// NewEndpoint derives the RuntimeEndpoint for a located socket.
//
// The host string is normalised with the Docker CLI's own host parser so the
// value handed to the CLI, the SDK and the updater is one the CLI accepts.
//
// Parameters:
//   - path: Socket path selected by the socket locator.
//
// Returns:
//   - types.RuntimeEndpoint: The "unix://" endpoint.
//   - error: Non-nil if the path does not form a valid unix host.
func NewEndpoint(path types.SocketPath) (types.RuntimeEndpoint, error) {
	if path == "" || !strings.HasPrefix(string(path), "/") {
		return "", fmt.Errorf("%w: socket path %q is not absolute", errInvalidEndpoint, path)
	}

	host, err := opts.ParseHost(false, string(types.EndpointFor(path)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidEndpoint, err)
	}

	if !strings.HasPrefix(host, "unix://") {
		return "", fmt.Errorf("%w: %s", errUnsupportedScheme, host)
	}

	return types.RuntimeEndpoint(host), nil
}
