package actions

import "errors"

// Errors for the fatal stages.
var (
	// errSocketNotFound indicates none of the candidate paths is a socket node.
	errSocketNotFound = errors.New("no docker socket found")
	// errEndpointFailed indicates the selected socket could not be turned into an endpoint.
	errEndpointFailed = errors.New("failed to derive runtime endpoint")
	// errClientMissing indicates the runtime CLI is not on PATH.
	errClientMissing = errors.New("runtime CLI not found")
	// errRuntimeBindFailed indicates the runtime backend could not be bound to the endpoint.
	errRuntimeBindFailed = errors.New("failed to bind runtime backend")
	// errDaemonUnreachable indicates the daemon did not answer the probe.
	errDaemonUnreachable = errors.New("docker daemon unreachable")
	// errContainerMissing indicates the target container could not be inspected.
	errContainerMissing = errors.New("target container not inspectable")
)

// Errors for version detection; these are logged and never abort.
var (
	// errVersionQueryFailed indicates the version command inside the container failed.
	errVersionQueryFailed = errors.New("version query failed")
	// errVersionNotFound indicates the version output carried no usable version.
	errVersionNotFound = errors.New("no version found in output")
)
