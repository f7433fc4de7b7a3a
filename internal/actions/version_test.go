package actions_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/esphome-gate/internal/actions"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var _ = ginkgo.Describe("ParseVersion", func() {
	ginkgo.DescribeTable("recognised output",
		func(output, expected string) {
			version, err := actions.ParseVersion(output)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(version).To(gomega.Equal(expected))
		},
		ginkgo.Entry("Version: marker", "Version: 2024.1.0\n", "2024.1.0"),
		ginkgo.Entry("ESPHome marker", "ESPHome 2024.1.0", "2024.1.0"),
		ginkgo.Entry("lower-case marker", "esphome 2023.12.5", "2023.12.5"),
		ginkgo.Entry("beta suffix", "Version: 2024.12.0b1", "2024.12.0b1"),
		ginkgo.Entry("dev suffix", "Version: 2025.2.0-dev", "2025.2.0-dev"),
		ginkgo.Entry("two-part version", "Version: 2024.1", "2024.1"),
		ginkgo.Entry("leading v", "ESPHome v2024.6.1", "2024.6.1"),
		ginkgo.Entry(
			"first matching line among noise",
			"INFO Reading configuration\nWARNING esphome is slow today\nVersion: 2024.5.3\nVersion: 1.0.0",
			"2024.5.3",
		),
	)

	ginkgo.DescribeTable("unrecognised output",
		func(output string) {
			version, err := actions.ParseVersion(output)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(version).To(gomega.Equal(types.UnknownVersion))
		},
		ginkgo.Entry("empty output", ""),
		ginkgo.Entry("no marker", "2024.1.0"),
		ginkgo.Entry("marker without number", "ESPHome dashboard started"),
		ginkgo.Entry("trailing garbage glued to the version", "Version: 2024.1.0xyz"),
		ginkgo.Entry("single number", "Version: 7"),
		ginkgo.Entry("marker inside another word", "myesphome 2024.1.0"),
	)
})
