package actions

import (
	"fmt"
	"strings"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

const protectionModeFix = "Go to the add-on Info tab and toggle 'Protection mode' to OFF"

// daemonCauses holds the operator text for each daemon cause, in default order.
var daemonCauses = []struct {
	cause types.DaemonCause
	text  string
	fix   string
}{
	{
		cause: types.CauseDaemonDown,
		text:  "Docker daemon is not running",
		fix:   "Check the Supervisor system log and restart the host if Docker is down",
	},
	{
		cause: types.CausePermission,
		text:  "Permission denied on the Docker socket",
		fix:   "Reinstall the add-on so the Supervisor grants it access to the socket",
	},
	{
		cause: types.CauseAccessRestricted,
		text:  "Protection Mode is blocking Docker access",
		fix:   protectionModeFix,
	},
}

func socketNotFoundDiagnostic(candidates []types.SocketPath) types.Diagnostic {
	checked := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		checked = append(checked, string(candidate))
	}

	return types.Diagnostic{
		Summary:     "Docker socket not available",
		Causes:      []string{"Protection Mode is likely ON"},
		Consequence: "The updater cannot reach Docker and was not started",
		Fixes:       []string{protectionModeFix},
		Hints: []string{
			"Checked: " + strings.Join(checked, ", "),
			"This add-on needs the same Docker access that ESPHome itself has for compilation",
			"It only accesses the ESPHome add-on container and only reads/writes /config/esphome/",
			"It does not access other containers or the host system",
		},
	}
}

func clientMissingDiagnostic(cli string, err error) types.Diagnostic {
	return types.Diagnostic{
		Summary: fmt.Sprintf("Docker CLI %q not available", cli),
		Causes: []string{
			"The add-on image was built without the Docker CLI; this is a packaging defect, not a configuration problem",
		},
		Consequence: "The updater compiles through the Docker CLI and was not started",
		Fixes: []string{
			"Rebuild or reinstall the add-on",
			"Report the problem to the add-on maintainer if it persists",
		},
		Detail: err.Error(),
	}
}

// daemonUnreachableDiagnostic lists every daemon cause, leading with the classified one.
func daemonUnreachableDiagnostic(
	likely types.DaemonCause,
	endpoint types.RuntimeEndpoint,
	detail string,
) types.Diagnostic {
	causes := make([]string, 0, len(daemonCauses))
	fixes := make([]string, 0, len(daemonCauses))

	for _, c := range daemonCauses {
		if c.cause == likely {
			causes = append(causes, c.text+" (most likely)")
			fixes = append(fixes, c.fix)
		}
	}

	for _, c := range daemonCauses {
		if c.cause != likely {
			causes = append(causes, c.text)
			fixes = append(fixes, c.fix)
		}
	}

	return types.Diagnostic{
		Summary:     "Cannot communicate with Docker daemon at " + endpoint.String(),
		Causes:      causes,
		Consequence: "The updater cannot reach Docker and was not started",
		Fixes:       fixes,
		Detail:      detail,
	}
}

func containerNotFoundDiagnostic(identifier string, err error) types.Diagnostic {
	hints := make([]string, 0, len(types.KnownContainerIdentifiers))
	for _, name := range types.KnownContainerIdentifiers {
		if name == types.DefaultContainerIdentifier {
			name += " (official ESPHome add-on)"
		}

		hints = append(hints, "Common container name: "+name)
	}

	return types.Diagnostic{
		Summary: fmt.Sprintf("ESPHome container '%s' not found", identifier),
		Causes: []string{
			"ESPHome add-on is not installed or not running",
			"Container name in 'esphome_container' does not match the ESPHome add-on",
		},
		Consequence: "The updater has no container to compile in and was not started",
		Fixes: []string{
			"Ensure the ESPHome add-on is installed and running",
			"Note the exact container name from the Supervisor logs",
			"Update the 'esphome_container' option if it is different",
		},
		Hints:  hints,
		Detail: err.Error(),
	}
}
