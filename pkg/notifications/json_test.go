package notifications

import (
	"bytes"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var _ = ginkgo.Describe("JSON template", func() {
	ginkgo.When("JSON template is used", func() {
		ginkgo.It("should format the abort to the expected format", func() {
			expected := `{
	"abort": {
		"causes": ["Protection Mode is likely ON"],
		"consequence": "",
		"exitCode": 1,
		"fixes": ["Disable Protection Mode", "Restart the add-on"],
		"hints": null,
		"kind": "SocketNotFound",
		"stage": "docker socket",
		"summary": "Docker socket not available"
	},
	"container": "addon_15ef4d2f_esphome",
	"endpoint": "",
	"host": "Mock",
	"stages": [
		{"duration": 0.25, "stage": "docker socket", "state": "aborted"}
	],
	"title": "ESPHome Gate"
}`
			result := types.Result{
				State:  types.StateAborted,
				Config: types.DefaultConfiguration(),
				Abort: &types.Abort{
					Stage: types.StageSocket,
					Kind:  types.SocketNotFound,
					Diagnostic: types.Diagnostic{
						Summary: "Docker socket not available",
						Causes:  []string{"Protection Mode is likely ON"},
						Fixes:   []string{"Disable Protection Mode", "Restart the add-on"},
					},
					ExitCode: types.ExitCodeAbort,
				},
				Stages: []types.StageReport{
					{Stage: types.StageSocket, State: types.StateAborted, Duration: 250 * time.Millisecond},
				},
			}

			tpl, err := getShoutrrrTemplate("json.v1")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			var body bytes.Buffer
			data := newData(StaticData{Title: DefaultTitle, Host: "Mock"}, result)
			gomega.Expect(tpl.Execute(&body, data)).To(gomega.Succeed())
			gomega.Expect(body.String()).To(gomega.MatchJSON(expected))
		})

		ginkgo.It("should include the runtime detail when present", func() {
			data := Data{Abort: &types.Abort{Diagnostic: types.Diagnostic{Detail: "dial unix: connection refused"}}}

			raw, err := data.MarshalJSON()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(string(raw)).To(gomega.ContainSubstring(`"detail":"dial unix: connection refused"`))
		})
	})
})
