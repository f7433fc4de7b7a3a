package actions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// versionPattern matches a version token following an "ESPHome" or "Version:"
// marker: a dotted numeric core (group 1) and an optional pre-release suffix
// such as "b1", "rc2" or "-dev" (group 2). The token must end the line or be
// followed by whitespace.
var versionPattern = regexp.MustCompile(
	`(?i)\b(?:esphome|version:)\s+v?([0-9]+\.[0-9]+(?:\.[0-9]+)?)((?:-?(?:a|b|rc|dev)[0-9]*)?)(?:\s|$)`,
)

// ParseVersion extracts the version from the output of "esphome version".
//
// Lines are scanned in order; the first one carrying a marker followed by a
// well-formed version wins. The numeric core must parse as a semantic version.
//
// Parameters:
//   - output: Raw command output.
//
// Returns:
//   - string: Version as printed (e.g. "2024.1.0" or "2024.12.0b1").
//   - error: Non-nil when no line yields a valid version.
func ParseVersion(output string) (string, error) {
	for line := range strings.SplitSeq(output, "\n") {
		match := versionPattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}

		if _, err := semver.NewVersion(match[1]); err != nil {
			continue
		}

		return match[1] + match[2], nil
	}

	return types.UnknownVersion, errVersionNotFound
}

// detectVersion asks the target container for its version. It never aborts.
func (p *Pipeline) detectVersion(ctx context.Context, r *run) (types.State, *types.Abort) {
	clog := p.log.WithField("container", r.result.Config.ContainerIdentifier)

	output, err := r.runtime.Exec(ctx, r.result.Config.ContainerIdentifier, p.versionCommand...)
	if err != nil {
		clog.WithError(fmt.Errorf("%w: %w", errVersionQueryFailed, err)).Debug("Version query failed")
		clog.Warn("Could not determine ESPHome version")

		r.result.Version = types.UnknownVersion

		return types.StateVersionUnknown, nil
	}

	version, err := ParseVersion(output)
	if err != nil {
		clog.WithError(err).WithField("output", strings.TrimSpace(output)).Debug("Version output not recognised")
		clog.Warn("Could not determine ESPHome version")

		r.result.Version = types.UnknownVersion

		return types.StateVersionUnknown, nil
	}

	r.result.Version = version

	clog.WithField("version", version).Info("ESPHome version: " + version)

	return types.StateVersionKnown, nil
}
