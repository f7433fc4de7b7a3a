package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// LocateSocket returns the first candidate that exists as a socket node.
//
// Candidates are checked strictly in list order, so an earlier entry wins
// whenever several are present. Paths that are missing or are not sockets
// (regular files, directories) are skipped. Only Stat is called on fs.
//
// Parameters:
//   - fs: Filesystem to check.
//   - candidates: Paths in priority order.
//
// Returns:
//   - types.SocketPath: Selected path, empty when none qualifies.
//   - bool: True if a socket was found.
func LocateSocket(fs afero.Fs, candidates []types.SocketPath) (types.SocketPath, bool) {
	for _, candidate := range candidates {
		clog := logrus.WithField("socket", candidate)

		info, err := fs.Stat(string(candidate))
		if err != nil {
			clog.WithError(err).Debug("Socket candidate not present")

			continue
		}

		if info.Mode()&os.ModeSocket == 0 {
			clog.WithField("mode", info.Mode().String()).Debug("Socket candidate is not a socket node")

			continue
		}

		return candidate, true
	}

	return "", false
}

// locateSocket selects the socket and derives the endpoint every later stage uses.
func (p *Pipeline) locateSocket(_ context.Context, r *run) (types.State, *types.Abort) {
	socket, found := LocateSocket(p.fs, p.candidates)
	if !found {
		return types.StateAborted, &types.Abort{
			Kind:       types.SocketNotFound,
			Diagnostic: socketNotFoundDiagnostic(p.candidates),
			Err:        fmt.Errorf("%w: checked %v", errSocketNotFound, p.candidates),
		}
	}

	endpoint, err := container.NewEndpoint(socket)
	if err != nil {
		diagnostic := socketNotFoundDiagnostic(p.candidates)
		diagnostic.Detail = err.Error()

		return types.StateAborted, &types.Abort{
			Kind:       types.SocketNotFound,
			Diagnostic: diagnostic,
			Err:        fmt.Errorf("%w: %w", errEndpointFailed, err),
		}
	}

	r.result.Socket = socket
	r.result.Endpoint = endpoint

	p.log.WithFields(logrus.Fields{
		"socket":   socket,
		"endpoint": endpoint,
	}).Info("Docker socket found: " + string(socket))

	return types.StateSocketFound, nil
}
