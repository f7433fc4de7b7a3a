package types

import (
	"fmt"
	"time"
)

// ExitCodeAbort is the process exit code for every fatal abort.
const ExitCodeAbort = 1

// UnknownVersion is the sentinel reported when a version cannot be determined.
const UnknownVersion = "unknown"

// Stage identifies one step of the validation pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageSocket     Stage = "docker socket"
	StageClient     Stage = "docker CLI"
	StageDaemon     Stage = "docker connection"
	StageContainer  Stage = "ESPHome container"
	StageVersion    Stage = "ESPHome version"
	StageHandoff    Stage = "handoff"
	StageBackend    Stage = "runtime backend"
	stageUnassigned Stage = ""
)

// State is a node of the pipeline state machine.
//
// The machine is linear: Init → SocketFound → ClientVerified → DaemonReachable →
// ContainerVerified → VersionKnown|VersionUnknown → HandedOff, with a fatal
// edge from the first four transitions to Aborted. A failed exec of the
// updater also ends in Aborted.
type State string

// Pipeline states.
const (
	StateInit              State = "init"
	StateSocketFound       State = "socket_found"
	StateClientVerified    State = "client_verified"
	StateDaemonReachable   State = "daemon_reachable"
	StateContainerVerified State = "container_verified"
	StateVersionKnown      State = "version_known"
	StateVersionUnknown    State = "version_unknown"
	StateHandedOff         State = "handed_off"
	StateAborted           State = "aborted"
)

// Terminal reports whether no further transition can leave the state.
func (s State) Terminal() bool {
	return s == StateHandedOff || s == StateAborted
}

// FailureKind classifies a fatal abort.
type FailureKind string

// Fatal failure kinds.
const (
	SocketNotFound    FailureKind = "SocketNotFound"
	ClientMissing     FailureKind = "ClientMissing"
	DaemonUnreachable FailureKind = "DaemonUnreachable"
	ContainerNotFound FailureKind = "ContainerNotFound"
	// BackendUnavailable means no runtime backend could be built for the run.
	BackendUnavailable FailureKind = "BackendUnavailable"
	// HandoffFailed means every check passed but the updater could not be started.
	HandoffFailed FailureKind = "HandoffFailed"
)

// DaemonCause is the most likely reason a daemon probe failed.
type DaemonCause string

// Daemon failure causes reported to the operator.
const (
	CauseUnknown          DaemonCause = "unknown"
	CauseDaemonDown       DaemonCause = "daemon_down"
	CausePermission       DaemonCause = "permission"
	CauseAccessRestricted DaemonCause = "access_restricted"
)

// Diagnostic is the operator-facing explanation attached to an abort.
type Diagnostic struct {
	// Summary is the one-line headline.
	Summary string
	// Causes lists the possible causes, most likely first.
	Causes []string
	// Consequence states what the gate does about it.
	Consequence string
	// Fixes lists remediation steps in order.
	Fixes []string
	// Hints carries extra remediation context such as known-good names.
	Hints []string
	// Detail is the raw error text from the runtime, if any.
	Detail string
}

// Lines renders the diagnostic as the line sequence written to the log.
func (d Diagnostic) Lines() []string {
	lines := []string{"", "FATAL: " + d.Summary, ""}

	lines = appendBlock(lines, "CAUSE:", d.Causes)

	if d.Consequence != "" {
		lines = append(lines, "CONSEQUENCE: "+d.Consequence, "")
	}

	lines = appendBlock(lines, "FIX:", d.Fixes)
	lines = appendBlock(lines, "HINT:", d.Hints)

	if d.Detail != "" {
		lines = append(lines, "DETAIL: "+d.Detail, "")
	}

	return lines
}

func appendBlock(lines []string, title string, items []string) []string {
	switch len(items) {
	case 0:
		return lines
	case 1:
		return append(lines, title+" "+items[0], "")
	}

	lines = append(lines, title)
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, item))
	}

	return append(lines, "")
}

// Abort is the terminal outcome of a failed fatal stage.
//
// It implements error so stages can return it through ordinary error paths;
// use errors.As to recover it.
type Abort struct {
	Stage      Stage
	Kind       FailureKind
	Diagnostic Diagnostic
	ExitCode   int
	Err        error
}

// Error implements the error interface.
func (a *Abort) Error() string {
	if a.Err != nil {
		return fmt.Sprintf("%s at %s: %s: %v", a.Kind, a.Stage, a.Diagnostic.Summary, a.Err)
	}

	return fmt.Sprintf("%s at %s: %s", a.Kind, a.Stage, a.Diagnostic.Summary)
}

// Unwrap exposes the underlying runtime error.
func (a *Abort) Unwrap() error {
	return a.Err
}

// StageReport records one executed stage.
type StageReport struct {
	Stage    Stage
	State    State
	Duration time.Duration
}

// Result is the terminal value of a pipeline run.
//
// Exactly one of the two shapes applies: when Abort is nil the run proceeds to
// handoff and Endpoint, Descriptor and Version are populated; otherwise Abort
// describes the failure and the process must exit with Abort.ExitCode.
type Result struct {
	State         State
	Config        Configuration
	Socket        SocketPath
	Endpoint      RuntimeEndpoint
	ClientPath    string
	ClientVersion string
	Descriptor    ContainerDescriptor
	Version       string
	Abort         *Abort
	Stages        []StageReport
}

// Proceed reports whether the run may hand off to the updater.
func (r Result) Proceed() bool {
	return r.Abort == nil && r.State != StateAborted
}

// FailedStage returns the stage that aborted the run, or an empty stage.
func (r Result) FailedStage() Stage {
	if r.Abort == nil {
		return stageUnassigned
	}

	return r.Abort.Stage
}
