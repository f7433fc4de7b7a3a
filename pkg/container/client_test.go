package container

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	dockerContainerType "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/esphome-gate/pkg/container/mocks"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

const esphomeID = "2f1e0c4b9a8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f"

// newSocketServer starts a ghttp server listening on a unix socket, the only
// transport the API backend dials. Version negotiation pings are answered by a
// route so they never consume an appended handler.
func newSocketServer() (*ghttp.Server, types.SocketPath) {
	dir, err := os.MkdirTemp("", "gate")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	ginkgo.DeferCleanup(os.RemoveAll, dir)

	socket := filepath.Join(dir, "docker.sock")
	listener, err := net.Listen("unix", socket)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	server := ghttp.NewUnstartedServer()
	server.HTTPTestServer.Listener = listener
	server.Start()

	server.RouteToHandler(http.MethodHead, "/_ping", mocks.PingHandler())
	server.RouteToHandler(http.MethodGet, "/_ping", mocks.PingHandler())

	return server, types.SocketPath(socket)
}

// apiRequests returns the received requests other than version negotiation pings.
func apiRequests(server *ghttp.Server) []*http.Request {
	requests := []*http.Request{}

	for _, request := range server.ReceivedRequests() {
		if request.URL.Path != "/_ping" {
			requests = append(requests, request)
		}
	}

	return requests
}

var _ = ginkgo.Describe("the API client", func() {
	var (
		ctx        context.Context
		mockServer *ghttp.Server
		backend    types.Runtime
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()

		var socket types.SocketPath
		mockServer, socket = newSocketServer()

		var err error
		backend, err = NewClient(types.EndpointFor(socket))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		mockServer.Close()
	})

	ginkgo.It("should report its backend name", func() {
		gomega.Expect(backend.Name()).To(gomega.Equal(BackendAPI))
	})

	ginkgo.When("probing the daemon", func() {
		ginkgo.It("should succeed when containers can be listed", func() {
			mockServer.AppendHandlers(mocks.ListContainersHandler(dockerContainerType.Summary{ID: esphomeID}))

			gomega.Expect(backend.Probe(ctx)).To(gomega.Succeed())
			gomega.Expect(apiRequests(mockServer)).To(gomega.HaveLen(1))
		})

		ginkgo.It("should classify a 403 as restricted access", func() {
			mockServer.AppendHandlers(mocks.ListContainersErrorHandler(
				http.StatusForbidden,
				"access to this endpoint is blocked by protection mode",
			))

			err := backend.Probe(ctx)

			var probeErr *ProbeError
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(probeErr))
			gomega.Expect(ClassifyDaemonError(err)).To(gomega.Equal(types.CauseAccessRestricted))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("failed to list containers"))
		})

		ginkgo.It("should classify a 401 as a permission problem", func() {
			mockServer.AppendHandlers(mocks.ListContainersErrorHandler(http.StatusUnauthorized, "unauthorized"))

			gomega.Expect(ClassifyDaemonError(backend.Probe(ctx))).To(gomega.Equal(types.CausePermission))
		})

		ginkgo.It("should classify an unreachable daemon as down", func() {
			mockServer.Close()

			gomega.Expect(ClassifyDaemonError(backend.Probe(ctx))).To(gomega.Equal(types.CauseDaemonDown))
		})
	})

	ginkgo.When("inspecting a container", func() {
		ginkgo.It("should return the raw body and the logged fields", func() {
			info := &dockerContainerType.InspectResponse{
				ContainerJSONBase: &dockerContainerType.ContainerJSONBase{
					ID:    esphomeID,
					Name:  "/addon_15ef4d2f_esphome",
					State: &dockerContainerType.State{Status: "running", Running: true},
				},
				Config: &dockerContainerType.Config{Image: "docker.io/esphome/esphome:2024.5.2"},
			}
			mockServer.AppendHandlers(mocks.GetContainerHandler("addon_15ef4d2f_esphome", info))

			descriptor, err := backend.Inspect(ctx, "addon_15ef4d2f_esphome")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(descriptor.Exists).To(gomega.BeTrue())
			gomega.Expect(descriptor.Identifier).To(gomega.Equal("addon_15ef4d2f_esphome"))
			gomega.Expect(descriptor.ID).To(gomega.Equal(types.ContainerID(esphomeID)))
			gomega.Expect(descriptor.Image).To(gomega.Equal("esphome/esphome:2024.5.2"))
			gomega.Expect(descriptor.State).To(gomega.Equal("running"))
			gomega.Expect(string(descriptor.Raw)).To(gomega.ContainSubstring(esphomeID))
		})

		ginkgo.It("should report a 404 as a missing container", func() {
			mockServer.AppendHandlers(mocks.GetContainerHandler("addon_x_esphome", nil))

			descriptor, err := backend.Inspect(ctx, "addon_x_esphome")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(IsContainerNotFound(err)).To(gomega.BeTrue())
			gomega.Expect(descriptor.Exists).To(gomega.BeFalse())
		})

		ginkgo.It("should keep other failures apart from a missing container", func() {
			mockServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/addon_x_esphome/json")),
				mocks.RespondWithError(http.StatusInternalServerError, "boom"),
			))

			_, err := backend.Inspect(ctx, "addon_x_esphome")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(IsContainerNotFound(err)).To(gomega.BeFalse())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("failed to inspect container"))
		})
	})

	ginkgo.When("executing a command in the container", func() {
		command := []string{"esphome", "version"}

		ginkgo.It("should return standard output only", func() {
			mockServer.AppendHandlers(
				mocks.ExecCreateHandler("addon_15ef4d2f_esphome", command),
				mocks.ExecStartHandler("Version: 2024.5.2\n", "INFO loading\n"),
				mocks.ExecInspectHandler(0),
			)

			output, err := backend.Exec(ctx, "addon_15ef4d2f_esphome", command...)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(output).To(gomega.Equal("Version: 2024.5.2\n"))
		})

		ginkgo.It("should fail on a non-zero exit code but keep the output", func() {
			mockServer.AppendHandlers(
				mocks.ExecCreateHandler("addon_15ef4d2f_esphome", command),
				mocks.ExecStartHandler("partial\n", ""),
				mocks.ExecInspectHandler(2),
			)

			output, err := backend.Exec(ctx, "addon_15ef4d2f_esphome", command...)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("exit code 2"))
			gomega.Expect(output).To(gomega.Equal("partial\n"))
		})

		ginkgo.It("should fail when the exec instance cannot be created", func() {
			mockServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", gomega.HaveSuffix("/containers/addon_15ef4d2f_esphome/exec")),
				mocks.RespondWithError(http.StatusConflict, "container is not running"),
			))

			_, err := backend.Exec(ctx, "addon_15ef4d2f_esphome", command...)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("failed to create exec instance"))
		})
	})
})

var _ = ginkgo.Describe("NewClient", func() {
	ginkgo.It("should bind to the endpoint's socket", func() {
		runtime, err := NewClient("unix:///run/docker.sock")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(runtime.Name()).To(gomega.Equal(BackendAPI))
	})

	ginkgo.It("should refuse an endpoint that is not a unix socket", func() {
		_, err := NewClient("tcp://127.0.0.1:2375")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
