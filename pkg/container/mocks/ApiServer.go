// Package mocks provides Docker Engine API handlers for testing the API backend against a ghttp server.
package mocks

import (
	"encoding/json"
	"net/http"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

// ExecID is the exec instance ID returned by ExecCreateHandler.
const ExecID = "5c0f5e8a1b2d"

// errorResponse is the body the Engine API sends with every error status.
type errorResponse struct {
	Message string `json:"message"`
}

// RespondWithError returns the given status with an Engine API error body.
func RespondWithError(statusCode int, message string) http.HandlerFunc {
	return ghttp.RespondWithJSONEncoded(statusCode, errorResponse{Message: message})
}

// APIVersion is the Engine API version advertised by PingHandler.
const APIVersion = "1.47"

// PingHandler answers the client's API version negotiation.
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Api-Version", APIVersion)
		w.Header().Set("Ostype", "linux")
		w.WriteHeader(http.StatusOK)
	}
}

// ListContainersHandler serves the probe's container listing.
func ListContainersHandler(containers ...container.Summary) http.HandlerFunc {
	if containers == nil {
		containers = []container.Summary{}
	}

	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/json")),
		ghttp.RespondWithJSONEncoded(http.StatusOK, containers),
	)
}

// ListContainersErrorHandler fails the probe's container listing with statusCode.
func ListContainersErrorHandler(statusCode int, message string) http.HandlerFunc {
	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/json")),
		RespondWithError(statusCode, message),
	)
}

// GetContainerHandler serves containerInfo for containerID, or a 404 when containerInfo is nil.
func GetContainerHandler(containerID string, containerInfo *container.InspectResponse) http.HandlerFunc {
	responseHandler := RespondWithError(http.StatusNotFound, "No such container: "+containerID)
	if containerInfo != nil {
		responseHandler = ghttp.RespondWithJSONEncoded(http.StatusOK, containerInfo)
	}

	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/containers/%s/json", containerID)),
		responseHandler,
	)
}

// ExecCreateHandler creates an exec instance with ID ExecID in containerID.
func ExecCreateHandler(containerID string, command []string) http.HandlerFunc {
	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("POST", gomega.HaveSuffix("/containers/%s/exec", containerID)),
		func(_ http.ResponseWriter, r *http.Request) {
			var options container.ExecOptions
			gomega.Expect(json.NewDecoder(r.Body).Decode(&options)).To(gomega.Succeed())
			gomega.Expect(options.Cmd).To(gomega.Equal(command))
			gomega.Expect(options.AttachStdout).To(gomega.BeTrue())
		},
		ghttp.RespondWithJSONEncoded(http.StatusCreated, container.ExecCreateResponse{ID: ExecID}),
	)
}

// ExecStartHandler upgrades the connection and streams stdout and stderr in the
// multiplexed format, then closes it.
func ExecStartHandler(stdout, stderr string) http.HandlerFunc {
	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("POST", gomega.HaveSuffix("/exec/%s/start", ExecID)),
		func(w http.ResponseWriter, _ *http.Request) {
			hijacker, ok := w.(http.Hijacker)
			gomega.Expect(ok).To(gomega.BeTrue(), "response writer must support hijacking")

			conn, buffered, err := hijacker.Hijack()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			defer func() { _ = conn.Close() }()

			_, _ = buffered.WriteString("HTTP/1.1 101 UPGRADED\r\n" +
				"Content-Type: application/vnd.docker.multiplexed-stream\r\n" +
				"Connection: Upgrade\r\n" +
				"Upgrade: tcp\r\n\r\n")

			if stdout != "" {
				_, _ = stdcopy.NewStdWriter(buffered, stdcopy.Stdout).Write([]byte(stdout))
			}

			if stderr != "" {
				_, _ = stdcopy.NewStdWriter(buffered, stdcopy.Stderr).Write([]byte(stderr))
			}

			gomega.Expect(buffered.Flush()).To(gomega.Succeed())
		},
	)
}

// ExecInspectHandler reports the exec instance as finished with exitCode.
func ExecInspectHandler(exitCode int) http.HandlerFunc {
	return ghttp.CombineHandlers(
		ghttp.VerifyRequest("GET", gomega.HaveSuffix("/exec/%s/json", ExecID)),
		ghttp.RespondWithJSONEncoded(http.StatusOK, container.ExecInspect{
			ExecID:   ExecID,
			Running:  false,
			ExitCode: exitCode,
		}),
	)
}
