package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// probeDaemon binds the runtime backend to the endpoint and lists containers once.
func (p *Pipeline) probeDaemon(ctx context.Context, r *run) (types.State, *types.Abort) {
	clog := p.log.WithField("endpoint", r.result.Endpoint)

	runtime, err := p.factory(r.result.Endpoint)
	if err != nil {
		return types.StateAborted, &types.Abort{
			Kind:       types.DaemonUnreachable,
			Diagnostic: daemonUnreachableDiagnostic(types.CauseUnknown, r.result.Endpoint, err.Error()),
			Err:        fmt.Errorf("%w: %w", errRuntimeBindFailed, err),
		}
	}

	if err := runtime.Probe(ctx); err != nil {
		cause := container.ClassifyDaemonError(err)
		detail := err.Error()

		var probeErr *container.ProbeError
		if errors.As(err, &probeErr) && probeErr.Stderr != "" {
			detail = probeErr.Stderr
		}

		clog.WithFields(logrus.Fields{
			"backend": runtime.Name(),
			"cause":   string(cause),
		}).Debug("Daemon probe failed")

		return types.StateAborted, &types.Abort{
			Kind:       types.DaemonUnreachable,
			Diagnostic: daemonUnreachableDiagnostic(cause, r.result.Endpoint, detail),
			Err:        fmt.Errorf("%w: %w", errDaemonUnreachable, err),
		}
	}

	r.runtime = runtime

	clog.WithField("backend", runtime.Name()).Info("Docker daemon communication OK")

	return types.StateDaemonReachable, nil
}
