package container

import (
	"context"
	"errors"
	"os/exec"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var errExit = errors.New("exit status 1")

// runCall is one command observed by fakeRunner.
type runCall struct {
	env  []string
	name string
	args []string
}

// fakeRunner answers by the first argument and records every call.
type fakeRunner struct {
	outputs map[string]Output
	failing map[string]bool
	calls   []runCall
}

func (r *fakeRunner) Run(_ context.Context, env []string, name string, args ...string) (Output, error) {
	r.calls = append(r.calls, runCall{env: env, name: name, args: args})

	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	out := r.outputs[key]
	if r.failing[key] {
		out.ExitCode = 1

		return out, errExit
	}

	return out, nil
}

const inspectOutput = `[{
	"Id": "2f1e0c4b9a8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f",
	"State": {"Status": "exited"},
	"Config": {"Image": "ghcr.io/esphome/esphome:2024.5.2"}
}]`

var _ = ginkgo.Describe("the CLI backend", func() {
	var (
		ctx    context.Context
		runner *fakeRunner
		cli    *CLI
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		runner = &fakeRunner{outputs: map[string]Output{}, failing: map[string]bool{}}
		cli = NewCLI("", "unix:///run/docker.sock", runner)
	})

	ginkgo.It("should default to the docker binary", func() {
		gomega.Expect(cli.Name()).To(gomega.Equal(BackendCLI))
		gomega.Expect(cli.Probe(ctx)).To(gomega.Succeed())
		gomega.Expect(runner.calls).To(gomega.HaveLen(1))
		gomega.Expect(runner.calls[0].name).To(gomega.Equal("docker"))
	})

	ginkgo.It("should pass the endpoint as DOCKER_HOST on every call", func() {
		runner.outputs["inspect"] = Output{Stdout: []byte(inspectOutput)}

		gomega.Expect(cli.Probe(ctx)).To(gomega.Succeed())
		_, err := cli.Inspect(ctx, "addon_15ef4d2f_esphome")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = cli.Exec(ctx, "addon_15ef4d2f_esphome", "esphome", "version")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(runner.calls).To(gomega.HaveLen(3))

		for _, call := range runner.calls {
			gomega.Expect(call.env).To(gomega.Equal([]string{"DOCKER_HOST=unix:///run/docker.sock"}))
		}

		gomega.Expect(runner.calls[0].args).To(gomega.Equal([]string{"ps", "--quiet"}))
		gomega.Expect(runner.calls[1].args).To(gomega.Equal(
			[]string{"inspect", "--type", "container", "addon_15ef4d2f_esphome"}))
		gomega.Expect(runner.calls[2].args).To(gomega.Equal(
			[]string{"exec", "addon_15ef4d2f_esphome", "esphome", "version"}))
	})

	ginkgo.When("the probe fails", func() {
		ginkgo.It("should classify the stderr text", func() {
			runner.failing["ps"] = true
			runner.outputs["ps"] = Output{Stderr: []byte(
				"permission denied while trying to connect to the Docker daemon socket at unix:///run/docker.sock\n")}

			err := cli.Probe(ctx)

			var probeErr *ProbeError
			gomega.Expect(errors.As(err, &probeErr)).To(gomega.BeTrue())
			gomega.Expect(probeErr.Cause).To(gomega.Equal(types.CausePermission))
			gomega.Expect(probeErr.Stderr).To(gomega.HavePrefix("permission denied"))
			gomega.Expect(errors.Is(err, errExit)).To(gomega.BeTrue())
		})

		ginkgo.It("should report a daemon that is not running", func() {
			runner.failing["ps"] = true
			runner.outputs["ps"] = Output{Stderr: []byte(
				"Cannot connect to the Docker daemon at unix:///run/docker.sock. Is the docker daemon running?")}

			gomega.Expect(ClassifyDaemonError(cli.Probe(ctx))).To(gomega.Equal(types.CauseDaemonDown))
		})
	})

	ginkgo.When("inspecting", func() {
		ginkgo.It("should extract the descriptor fields", func() {
			runner.outputs["inspect"] = Output{Stdout: []byte(inspectOutput)}

			descriptor, err := cli.Inspect(ctx, "addon_15ef4d2f_esphome")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(descriptor.Exists).To(gomega.BeTrue())
			gomega.Expect(descriptor.ID.ShortID()).To(gomega.Equal("2f1e0c4b9a8d"))
			gomega.Expect(descriptor.Image).To(gomega.Equal("ghcr.io/esphome/esphome:2024.5.2"))
			gomega.Expect(descriptor.State).To(gomega.Equal("exited"))
			gomega.Expect(descriptor.Running()).To(gomega.BeFalse())
			gomega.Expect(string(descriptor.Raw)).To(gomega.Equal(inspectOutput))
		})

		ginkgo.It("should keep undecodable output as raw", func() {
			runner.outputs["inspect"] = Output{Stdout: []byte("not json")}

			descriptor, err := cli.Inspect(ctx, "addon_15ef4d2f_esphome")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(descriptor.Exists).To(gomega.BeTrue())
			gomega.Expect(descriptor.ID).To(gomega.BeEmpty())
			gomega.Expect(string(descriptor.Raw)).To(gomega.Equal("not json"))
		})

		ginkgo.It("should treat empty output as a failure", func() {
			_, err := cli.Inspect(ctx, "addon_15ef4d2f_esphome")
			gomega.Expect(err).To(gomega.MatchError(errEmptyInspectOutput))
		})

		ginkgo.DescribeTable("should recognise a missing container",
			func(stderr string, missing bool) {
				runner.failing["inspect"] = true
				runner.outputs["inspect"] = Output{Stderr: []byte(stderr)}

				_, err := cli.Inspect(ctx, "addon_x_esphome")
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(IsContainerNotFound(err)).To(gomega.Equal(missing))
			},
			ginkgo.Entry("no such container", "Error: No such container: addon_x_esphome", true),
			ginkgo.Entry("no such object", "Error: No such object: addon_x_esphome", true),
			ginkgo.Entry("daemon error", "Error response from daemon: internal error", false),
		)
	})

	ginkgo.It("should return partial stdout from a failed exec", func() {
		runner.failing["exec"] = true
		runner.outputs["exec"] = Output{Stdout: []byte("partial")}

		output, err := cli.Exec(ctx, "addon_15ef4d2f_esphome", "esphome", "version")
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(output).To(gomega.Equal("partial"))
	})
})

var _ = ginkgo.Describe("ResolveCLI", func() {
	var runner *fakeRunner

	ginkgo.BeforeEach(func() {
		runner = &fakeRunner{outputs: map[string]Output{}, failing: map[string]bool{}}
	})

	found := func(file string) (string, error) { return "/usr/bin/" + file, nil }

	ginkgo.It("should report the path and version", func() {
		runner.outputs["--version"] = Output{Stdout: []byte("\nDocker version 27.3.1, build ce12230\n")}

		info, err := ResolveCLI(context.Background(), "docker", found, runner)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(info.Path).To(gomega.Equal("/usr/bin/docker"))
		gomega.Expect(info.Version).To(gomega.Equal("Docker version 27.3.1, build ce12230"))
		gomega.Expect(runner.calls[0].env).To(gomega.BeEmpty())
	})

	ginkgo.It("should degrade to an unknown version when the query fails", func() {
		runner.failing["--version"] = true

		info, err := ResolveCLI(context.Background(), "docker", found, runner)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(info.Version).To(gomega.Equal(types.UnknownVersion))
	})

	ginkgo.It("should fail when the executable is missing", func() {
		missing := func(string) (string, error) { return "", exec.ErrNotFound }

		_, err := ResolveCLI(context.Background(), "docker", missing, runner)
		gomega.Expect(err).To(gomega.MatchError(exec.ErrNotFound))
		gomega.Expect(runner.calls).To(gomega.BeEmpty())
	})
})
