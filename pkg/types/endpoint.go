package types

import "strings"

// DockerHostEnv is the environment variable through which the runtime CLI learns its endpoint.
const DockerHostEnv = "DOCKER_HOST"

// unixScheme prefixes every endpoint derived from a socket path.
const unixScheme = "unix://"

// SocketPath is a filesystem path to a candidate runtime control socket.
type SocketPath string

// DefaultSocketCandidates lists the socket paths checked, highest priority first.
var DefaultSocketCandidates = []SocketPath{
	"/run/docker.sock",
	"/var/run/docker.sock",
}

// RuntimeEndpoint is the connection string derived from the selected socket,
// for example "unix:///var/run/docker.sock".
//
// It is passed explicitly to every stage that talks to the runtime and to the
// handoff; it is never written to the gate's own process environment.
type RuntimeEndpoint string

// EndpointFor builds the endpoint for a socket path.
func EndpointFor(path SocketPath) RuntimeEndpoint {
	return RuntimeEndpoint(unixScheme + string(path))
}

// SocketPath returns the filesystem path behind a unix endpoint, or an empty
// string for any other scheme.
func (e RuntimeEndpoint) SocketPath() SocketPath {
	if !strings.HasPrefix(string(e), unixScheme) {
		return ""
	}

	return SocketPath(strings.TrimPrefix(string(e), unixScheme))
}

// EnvEntry renders the endpoint as a DOCKER_HOST environment entry.
func (e RuntimeEndpoint) EnvEntry() string {
	return DockerHostEnv + "=" + string(e)
}

// String implements fmt.Stringer.
func (e RuntimeEndpoint) String() string {
	return string(e)
}
