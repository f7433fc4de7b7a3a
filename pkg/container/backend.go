package container

import (
	"fmt"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// Backends lists the accepted values of the --backend flag.
var Backends = []string{BackendCLI, BackendAPI}

// NewRuntimeFactory returns the factory that binds the named backend to an endpoint.
//
// Parameters:
//   - backend: BackendCLI or BackendAPI.
//   - binary: CLI name used by the CLI backend.
//   - runner: Command runner used by the CLI backend.
//
// Returns:
//   - types.RuntimeFactory: Factory for the backend.
//   - error: Non-nil for an unknown backend name.
func NewRuntimeFactory(backend, binary string, runner Runner) (types.RuntimeFactory, error) {
	switch backend {
	case BackendCLI, "":
		return func(endpoint types.RuntimeEndpoint) (types.Runtime, error) {
			return NewCLI(binary, endpoint, runner), nil
		}, nil
	case BackendAPI:
		return NewClient, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %v)", errUnknownBackend, backend, Backends)
	}
}
