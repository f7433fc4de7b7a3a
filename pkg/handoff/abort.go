package handoff

import (
	"errors"
	"strings"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// Abort describes a failed handoff so it can be reported like a failed check.
//
// Parameters:
//   - command: Updater argv that could not be started.
//   - err: Error returned by Handoff.
//
// Returns:
//   - *types.Abort: HandoffFailed abort at the handoff stage.
func Abort(command []string, err error) *types.Abort {
	updater := strings.Join(command, " ")

	diagnostic := types.Diagnostic{
		Summary:     "Failed to start updater: " + updater,
		Causes:      []string{"The updater could not be executed"},
		Consequence: "All Docker checks passed but no update was run",
		Fixes: []string{
			"Restart the add-on",
			"Reinstall the add-on if the problem persists",
		},
		Detail: err.Error(),
	}

	if errors.Is(err, errUpdaterNotFound) || errors.Is(err, errEmptyCommand) {
		diagnostic.Causes = []string{
			"The updater executable is not in the add-on image or not on PATH",
		}
		diagnostic.Fixes = []string{
			"Reinstall the add-on to restore the updater",
			"If a custom updater command is configured, check its path",
		}
	}

	return &types.Abort{
		Stage:      types.StageHandoff,
		Kind:       types.HandoffFailed,
		Diagnostic: diagnostic,
		ExitCode:   types.ExitCodeAbort,
		Err:        err,
	}
}
