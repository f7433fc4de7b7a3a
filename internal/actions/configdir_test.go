package actions_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/nicholas-fedor/esphome-gate/internal/actions"
)

var _ = ginkgo.Describe("CheckConfigDirectory", func() {
	var (
		fs     afero.Fs
		buffer *gbytes.Buffer
		log    *logrus.Entry
	)

	ginkgo.BeforeEach(func() {
		fs = afero.NewMemMapFs()
		buffer = gbytes.NewBuffer()

		logger := logrus.New()
		logger.SetOutput(buffer)
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
		log = logrus.NewEntry(logger)
	})

	check := func() int {
		return actions.NewPipeline(actions.Options{Fs: fs, Log: log}).CheckConfigDirectory()
	}

	ginkgo.It("should count the device configurations", func() {
		gomega.Expect(afero.WriteFile(fs, "/config/esphome/kitchen.yaml", []byte("esphome:\n"), 0o644)).To(gomega.Succeed())
		gomega.Expect(afero.WriteFile(fs, "/config/esphome/garage.yaml", []byte("esphome:\n"), 0o644)).To(gomega.Succeed())
		gomega.Expect(afero.WriteFile(fs, "/config/esphome/secrets.txt", []byte(""), 0o644)).To(gomega.Succeed())

		gomega.Expect(check()).To(gomega.Equal(2))
		gomega.Expect(buffer).To(gbytes.Say(`level=info msg="ESPHome config directory accessible" count=2`))
	})

	ginkgo.It("should warn when the directory holds no configurations", func() {
		gomega.Expect(fs.MkdirAll("/config/esphome/builds", 0o755)).To(gomega.Succeed())

		gomega.Expect(check()).To(gomega.BeZero())
		gomega.Expect(buffer).To(gbytes.Say(`level=warning msg="No device configurations found`))
	})

	ginkgo.It("should warn without failing when the directory is missing", func() {
		gomega.Expect(check()).To(gomega.BeZero())
		gomega.Expect(buffer).To(gbytes.Say(`level=warning msg="ESPHome config directory not found`))
		gomega.Expect(string(buffer.Contents())).NotTo(gomega.ContainSubstring("level=fatal"))
	})

	ginkgo.It("should honour a custom directory", func() {
		gomega.Expect(afero.WriteFile(fs, "/srv/devices/node.yaml", []byte(""), 0o644)).To(gomega.Succeed())

		count := actions.NewPipeline(actions.Options{
			Fs:              fs,
			Log:             log,
			ConfigDirectory: "/srv/devices",
		}).CheckConfigDirectory()

		gomega.Expect(count).To(gomega.Equal(1))
	})
})
