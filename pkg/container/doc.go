// Package container provides the container runtime backends used by the ESPHome gate.
// It implements types.Runtime over the Docker CLI and over the Docker Engine API.
//
// Key components:
//   - CLI: Runtime backend shelling out to "docker" with DOCKER_HOST set per invocation.
//   - NewClient: Runtime backend talking to the Engine API over the located unix socket.
//   - ResolveCLI: Confirms the runtime CLI is on PATH and reads its version.
//   - NewEndpoint: Turns a socket path into a validated DOCKER_HOST value.
//   - ClassifyDaemonError: Maps probe failures to daemon-down, permission or access-restriction causes.
//
// Usage example:
//
//	endpoint, _ := container.NewEndpoint("/var/run/docker.sock")
//	rt := container.NewCLI(container.DefaultCLI, endpoint, container.NewExecRunner())
//	if err := rt.Probe(ctx); err != nil {
//	    cause := container.ClassifyDaemonError(err)
//	}
//	descriptor, err := rt.Inspect(ctx, "addon_15ef4d2f_esphome")
//
// Both backends bind to exactly one endpoint and never read or write the gate's own DOCKER_HOST.
package container
