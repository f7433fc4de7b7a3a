package actions_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/nicholas-fedor/esphome-gate/internal/actions"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var _ = ginkgo.Describe("LocateSocket", func() {
	ginkgo.It("should prefer /run/docker.sock when both candidates exist", func() {
		fs := socketRoot("/run/docker.sock", "/var/run/docker.sock")

		socket, found := actions.LocateSocket(fs, types.DefaultSocketCandidates)

		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(socket).To(gomega.Equal(types.SocketPath("/run/docker.sock")))
	})

	ginkgo.It("should fall back to /var/run/docker.sock", func() {
		fs := socketRoot("/var/run/docker.sock")

		socket, found := actions.LocateSocket(fs, types.DefaultSocketCandidates)

		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(socket).To(gomega.Equal(types.SocketPath("/var/run/docker.sock")))
	})

	ginkgo.It("should follow list order rather than filesystem order", func() {
		fs := socketRoot("/run/docker.sock", "/var/run/docker.sock")
		reversed := []types.SocketPath{"/var/run/docker.sock", "/run/docker.sock"}

		socket, found := actions.LocateSocket(fs, reversed)

		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(socket).To(gomega.Equal(types.SocketPath("/var/run/docker.sock")))
	})

	ginkgo.It("should report not found when no candidate exists", func() {
		socket, found := actions.LocateSocket(afero.NewMemMapFs(), types.DefaultSocketCandidates)

		gomega.Expect(found).To(gomega.BeFalse())
		gomega.Expect(socket).To(gomega.BeEmpty())
	})

	ginkgo.It("should skip paths that exist but are not socket nodes", func() {
		fs := afero.NewMemMapFs()
		gomega.Expect(afero.WriteFile(fs, "/run/docker.sock", []byte("not a socket"), 0o644)).To(gomega.Succeed())
		gomega.Expect(fs.MkdirAll("/var/run/docker.sock", 0o755)).To(gomega.Succeed())

		_, found := actions.LocateSocket(fs, types.DefaultSocketCandidates)

		gomega.Expect(found).To(gomega.BeFalse())
	})

	ginkgo.It("should pick a later socket over an earlier non-socket", func() {
		fs := socketRoot("/var/run/docker.sock")
		gomega.Expect(fs.MkdirAll("/run", 0o755)).To(gomega.Succeed())
		gomega.Expect(afero.WriteFile(fs, "/run/docker.sock", []byte{}, 0o644)).To(gomega.Succeed())

		socket, found := actions.LocateSocket(fs, types.DefaultSocketCandidates)

		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(socket).To(gomega.Equal(types.SocketPath("/var/run/docker.sock")))
	})
})
