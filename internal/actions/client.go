package actions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// checkClient confirms the runtime CLI is installed.
//
// The updater shells out to the CLI, so this runs whichever backend the gate
// itself uses.
func (p *Pipeline) checkClient(ctx context.Context, r *run) (types.State, *types.Abort) {
	info, err := container.ResolveCLI(ctx, p.cli, p.lookPath, p.runner)
	if err != nil {
		return types.StateAborted, &types.Abort{
			Kind:       types.ClientMissing,
			Diagnostic: clientMissingDiagnostic(p.cli, err),
			Err:        fmt.Errorf("%w: %w", errClientMissing, err),
		}
	}

	r.result.ClientPath = info.Path
	r.result.ClientVersion = info.Version

	clog := p.log.WithFields(logrus.Fields{
		"path":    info.Path,
		"version": info.Version,
	})

	if info.Version == types.UnknownVersion {
		clog.Warn("Docker CLI available, version could not be determined")
	} else {
		clog.Info("Docker CLI available: " + info.Version)
	}

	return types.StateClientVerified, nil
}
