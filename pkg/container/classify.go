package container

import (
	"errors"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	dockerClient "github.com/docker/docker/client"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// ProbeError is returned by a failed daemon probe.
//
// Cause carries the most likely explanation so the operator diagnostic can
// lead with it.
type ProbeError struct {
	Cause  types.DaemonCause
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Markers searched for in runtime error text, lower-cased.
var (
	accessRestrictedMarkers = []string{
		"protection mode",
		"forbidden",
		"403",
		"not allowed",
		"access denied",
		"blocked",
	}
	permissionMarkers = []string{
		"permission denied",
		"operation not permitted",
		"eacces",
	}
	daemonDownMarkers = []string{
		"cannot connect to the docker daemon",
		"is the docker daemon running",
		"connection refused",
		"no such file or directory",
		"daemon is not running",
		"connect: connection reset",
	}
)

// ClassifyDaemonError maps a probe error to the most likely DaemonCause.
//
// Typed SDK errors are checked first; the error text is used as a fallback,
// which is the only signal available from the CLI backend.
func ClassifyDaemonError(err error) types.DaemonCause {
	if err == nil {
		return types.CauseUnknown
	}

	var probeErr *ProbeError
	if errors.As(err, &probeErr) && probeErr.Cause != types.CauseUnknown {
		return probeErr.Cause
	}

	switch {
	case cerrdefs.IsPermissionDenied(err):
		return types.CauseAccessRestricted
	case cerrdefs.IsUnauthorized(err):
		return types.CausePermission
	case dockerClient.IsErrConnectionFailed(err), cerrdefs.IsUnavailable(err):
		return types.CauseDaemonDown
	}

	return ClassifyDaemonText(err.Error())
}

// ClassifyDaemonText maps runtime error output to the most likely DaemonCause.
func ClassifyDaemonText(text string) types.DaemonCause {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, accessRestrictedMarkers):
		return types.CauseAccessRestricted
	case containsAny(lower, permissionMarkers):
		return types.CausePermission
	case containsAny(lower, daemonDownMarkers):
		return types.CauseDaemonDown
	}

	return types.CauseUnknown
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}
