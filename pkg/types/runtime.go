package types

import "context"

// Runtime is the container runtime surface the gate depends on.
//
// Implementations are bound to a single RuntimeEndpoint at construction time
// and make exactly one call to the runtime per method invocation.
type Runtime interface {
	// Name identifies the backend (e.g. "cli" or "api") in logs.
	Name() string

	// Probe issues a lightweight container listing against the daemon.
	//
	// A nil error means the daemon answered over the endpoint.
	Probe(ctx context.Context) error

	// Inspect fetches the inspection data of the named container.
	//
	// A nil error means the container exists and is inspectable.
	Inspect(ctx context.Context, identifier string) (ContainerDescriptor, error)

	// Exec runs a command inside the named container and returns its standard output.
	Exec(ctx context.Context, identifier string, command ...string) (string, error)
}

// RuntimeFactory binds a Runtime to an endpoint.
type RuntimeFactory func(endpoint RuntimeEndpoint) (Runtime, error)

// ClientInfo describes the resolved runtime CLI.
type ClientInfo struct {
	// Path is the absolute path of the executable.
	Path string
	// Version is the output of the CLI's own version command, or UnknownVersion.
	Version string
}
