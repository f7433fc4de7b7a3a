package actions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// verifyContainer inspects the configured target container.
func (p *Pipeline) verifyContainer(ctx context.Context, r *run) (types.State, *types.Abort) {
	identifier := r.result.Config.ContainerIdentifier
	clog := p.log.WithField("container", identifier)

	descriptor, err := r.runtime.Inspect(ctx, identifier)
	if err != nil || !descriptor.Exists {
		if err == nil {
			err = fmt.Errorf("%w: %s", errContainerMissing, identifier)
		}

		return types.StateAborted, &types.Abort{
			Kind:       types.ContainerNotFound,
			Diagnostic: containerNotFoundDiagnostic(identifier, err),
			Err:        fmt.Errorf("%w: %w", errContainerMissing, err),
		}
	}

	r.result.Descriptor = descriptor

	fields := logrus.Fields{}
	if descriptor.ID != "" {
		fields["id"] = descriptor.ID.ShortID()
	}

	if descriptor.Image != "" {
		fields["image"] = descriptor.Image
	}

	if descriptor.State != "" {
		fields["state"] = descriptor.State
	}

	clog.WithFields(fields).Info("ESPHome container found: " + identifier)

	if descriptor.State != "" && !descriptor.Running() {
		clog.WithField("state", descriptor.State).Warn("ESPHome container is not running, compilation may fail")
	}

	return types.StateContainerVerified, nil
}
