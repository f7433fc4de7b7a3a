// Package mocks provides mock implementations for testing the gate's pipeline.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// errNoSuchContainer is returned by MockRuntime.Inspect for unknown containers.
var errNoSuchContainer = errors.New("no such container")

// TestData holds the configured behaviour of a MockRuntime and records its calls.
type TestData struct {
	ProbeError  error                                // Returned by Probe.
	Containers  map[string]types.ContainerDescriptor // Containers known to Inspect, by identifier.
	ExecOutput  string                               // Returned by Exec.
	ExecError   error                                // Returned by Exec.
	FactoryErr  error                                // Returned by the factory instead of a runtime.
	Endpoints   []types.RuntimeEndpoint              // Endpoints the factory was called with.
	Calls       []string                             // Runtime methods invoked, in order.
	ExecCommand []string                             // Command passed to the last Exec.
}

// Called reports whether the named runtime method was invoked.
func (data *TestData) Called(method string) bool {
	for _, call := range data.Calls {
		if call == method {
			return true
		}
	}

	return false
}

// MockRuntime is a types.Runtime driven by TestData.
type MockRuntime struct {
	TestData *TestData
	Endpoint types.RuntimeEndpoint
}

// CreateMockRuntime constructs a MockRuntime bound to endpoint.
func CreateMockRuntime(data *TestData, endpoint types.RuntimeEndpoint) *MockRuntime {
	return &MockRuntime{TestData: data, Endpoint: endpoint}
}

// Factory returns a types.RuntimeFactory producing MockRuntimes over data.
func Factory(data *TestData) types.RuntimeFactory {
	return func(endpoint types.RuntimeEndpoint) (types.Runtime, error) {
		data.Endpoints = append(data.Endpoints, endpoint)
		if data.FactoryErr != nil {
			return nil, data.FactoryErr
		}

		return CreateMockRuntime(data, endpoint), nil
	}
}

// Name returns "mock".
func (runtime *MockRuntime) Name() string {
	return "mock"
}

// Probe records the call and returns TestData.ProbeError.
func (runtime *MockRuntime) Probe(_ context.Context) error {
	runtime.TestData.Calls = append(runtime.TestData.Calls, "probe")

	return runtime.TestData.ProbeError
}

// Inspect returns the configured descriptor, or a not-found error.
func (runtime *MockRuntime) Inspect(_ context.Context, identifier string) (types.ContainerDescriptor, error) {
	runtime.TestData.Calls = append(runtime.TestData.Calls, "inspect")

	descriptor, ok := runtime.TestData.Containers[identifier]
	if !ok {
		return types.ContainerDescriptor{Identifier: identifier}, fmt.Errorf("%w: %s", errNoSuchContainer, identifier)
	}

	descriptor.Identifier = identifier
	descriptor.Exists = true

	return descriptor, nil
}

// Exec records the command and returns the configured output.
func (runtime *MockRuntime) Exec(_ context.Context, identifier string, command ...string) (string, error) {
	runtime.TestData.Calls = append(runtime.TestData.Calls, "exec")
	runtime.TestData.ExecCommand = append([]string{identifier}, command...)

	return runtime.TestData.ExecOutput, runtime.TestData.ExecError
}

// ExistingContainer returns a descriptor for a running container with raw inspect output.
func ExistingContainer(identifier string) types.ContainerDescriptor {
	return types.ContainerDescriptor{
		Identifier: identifier,
		Exists:     true,
		Raw:        []byte(`[{"Name":"/` + strings.TrimPrefix(identifier, "/") + `"}]`),
		ID:         "0123456789abcdef0123456789abcdef",
		Image:      "ghcr.io/esphome/esphome:2024.1.0",
		State:      "running",
	}
}
