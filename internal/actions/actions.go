package actions

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/nicholas-fedor/esphome-gate/internal/logging"
	"github.com/nicholas-fedor/esphome-gate/pkg/container"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// DefaultVersionCommand is run inside the target container to read its version.
var DefaultVersionCommand = []string{"esphome", "version"}

// Options configures a Pipeline.
//
// Zero values select the production collaborators: the OS filesystem, the
// default socket candidates, the "docker" CLI resolved with exec.LookPath, an
// os/exec runner and the CLI runtime backend.
type Options struct {
	// Fs is the filesystem the socket candidates are checked on.
	Fs afero.Fs
	// SocketCandidates are checked in order; the first socket node wins.
	SocketCandidates []types.SocketPath
	// CLI is the runtime CLI that must be present on PATH.
	CLI string
	// LookPath resolves CLI on PATH.
	LookPath container.LookPathFunc
	// Runner starts the CLI's version query and, for the CLI backend, every runtime call.
	Runner container.Runner
	// RuntimeFactory binds the runtime backend to the located endpoint.
	RuntimeFactory types.RuntimeFactory
	// VersionCommand is executed inside the target container.
	VersionCommand []string
	// ConfigDirectory holds the device configurations the updater compiles.
	ConfigDirectory string
	// Log receives progress lines.
	Log *logrus.Entry
}

// Pipeline runs the gate's checks in order and stops at the first fatal failure.
//
// A Pipeline keeps no state between runs; calling Run twice against an
// unchanged environment yields the same terminal state.
type Pipeline struct {
	fs             afero.Fs
	candidates     []types.SocketPath
	cli            string
	lookPath       container.LookPathFunc
	runner         container.Runner
	factory        types.RuntimeFactory
	versionCommand []string
	configDir      string
	log            *logrus.Entry
}

// run carries the values produced by earlier stages of one Run call.
type run struct {
	result  types.Result
	runtime types.Runtime
}

// stage is one entry of the pipeline's fixed stage table.
type stage struct {
	name types.Stage
	fn   func(ctx context.Context, r *run) (types.State, *types.Abort)
}

// NewPipeline creates a pipeline, filling unset options with production defaults.
//
// Parameters:
//   - opts: Collaborators and settings; see Options.
//
// Returns:
//   - *Pipeline: Ready-to-run pipeline.
func NewPipeline(opts Options) *Pipeline {
	pipeline := &Pipeline{
		fs:             opts.Fs,
		candidates:     slices.Clone(opts.SocketCandidates),
		cli:            opts.CLI,
		lookPath:       opts.LookPath,
		runner:         opts.Runner,
		factory:        opts.RuntimeFactory,
		versionCommand: slices.Clone(opts.VersionCommand),
		configDir:      opts.ConfigDirectory,
		log:            opts.Log,
	}

	if pipeline.fs == nil {
		pipeline.fs = afero.NewOsFs()
	}

	if len(pipeline.candidates) == 0 {
		pipeline.candidates = slices.Clone(types.DefaultSocketCandidates)
	}

	if pipeline.cli == "" {
		pipeline.cli = container.DefaultCLI
	}

	if pipeline.runner == nil {
		pipeline.runner = container.NewExecRunner()
	}

	if pipeline.factory == nil {
		pipeline.factory = func(endpoint types.RuntimeEndpoint) (types.Runtime, error) {
			return container.NewCLI(pipeline.cli, endpoint, pipeline.runner), nil
		}
	}

	if len(pipeline.versionCommand) == 0 {
		pipeline.versionCommand = slices.Clone(DefaultVersionCommand)
	}

	if pipeline.configDir == "" {
		pipeline.configDir = logging.ConfigDirectory
	}

	if pipeline.log == nil {
		pipeline.log = logrus.NewEntry(logrus.StandardLogger())
	}

	return pipeline
}

// stages returns the stage table in execution order.
func (p *Pipeline) stages() []stage {
	return []stage{
		{types.StageSocket, p.locateSocket},
		{types.StageClient, p.checkClient},
		{types.StageDaemon, p.probeDaemon},
		{types.StageContainer, p.verifyContainer},
		{types.StageVersion, p.detectVersion},
	}
}

// Run executes every stage in order against the given configuration.
//
// The first stage that aborts ends the run; later stages are not invoked.
//
// Parameters:
//   - ctx: Context threaded to every runtime call; only external cancellation applies.
//   - config: Loaded add-on options.
//
// Returns:
//   - types.Result: Terminal state, the values gathered on the way and, on failure, the abort.
func (p *Pipeline) Run(ctx context.Context, config types.Configuration) types.Result {
	r := &run{result: types.Result{
		State:   types.StateInit,
		Config:  config,
		Version: types.UnknownVersion,
	}}

	logging.Header(p.log, "Safety Verification")

	for _, s := range p.stages() {
		logging.Section(p.log, s.name)

		start := time.Now()
		state, abort := s.fn(ctx, r)
		elapsed := time.Since(start)

		if abort != nil {
			abort.Stage = s.name
			abort.ExitCode = types.ExitCodeAbort
			r.result.State = types.StateAborted
			r.result.Abort = abort
			r.result.Stages = append(r.result.Stages, types.StageReport{
				Stage:    s.name,
				State:    types.StateAborted,
				Duration: elapsed,
			})

			p.log.WithFields(logrus.Fields{
				"stage": string(s.name),
				"kind":  string(abort.Kind),
			}).WithError(abort.Err).Debug("Stage aborted the pipeline")

			return r.result
		}

		r.result.State = state
		r.result.Stages = append(r.result.Stages, types.StageReport{
			Stage:    s.name,
			State:    state,
			Duration: elapsed,
		})
	}

	return r.result
}
