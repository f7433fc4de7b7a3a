// Package types defines the values and interfaces shared by the ESPHome gate.
// It provides the data model of the validation pipeline and the runtime abstraction.
//
// Key components:
//   - Configuration: The two add-on options interpreted by the gate.
//   - SocketPath / RuntimeEndpoint: Selected socket and the DOCKER_HOST value derived from it.
//   - ContainerDescriptor: Existence and raw inspection data of the target container.
//   - Runtime: Interface for probing the daemon, inspecting and exec-ing into the container.
//   - Result / Abort / Diagnostic: Terminal outcome of a pipeline run.
//
// Usage example:
//
//	cfg := types.DefaultConfiguration()
//	endpoint := types.EndpointFor("/var/run/docker.sock")
//	result := pipeline.Run(ctx, cfg)
//	if !result.Proceed() {
//	    for _, line := range result.Abort.Diagnostic.Lines() {
//	        fmt.Println(line)
//	    }
//	}
//
// The package has no behavior of its own beyond formatting helpers.
package types
