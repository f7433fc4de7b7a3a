// Package logging provides the line-oriented operator output of the ESPHome gate.
// It writes the startup banner, stage section headers, fatal diagnostics and the
// operating-boundaries summary printed before handoff.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// ruleWidth is the width of header rules.
const ruleWidth = 79

// titleCaser capitalises stage names for section headers without lowering acronyms.
var titleCaser = cases.Title(language.English, cases.NoLower)

// StartupInfo is what the banner reports.
type StartupInfo struct {
	GateVersion  string
	AddonVersion string
	Backend      string
	OptionsFile  string
	Config       types.Configuration
	Updater      []string
}

// WriteStartupMessage logs the banner and the effective configuration.
//
// Parameters:
//   - log: Entry to write to.
//   - info: Values to report.
func WriteStartupMessage(log *logrus.Entry, info StartupInfo) {
	Header(log, "ESPHome Gate "+info.GateVersion)

	addonVersion := info.AddonVersion
	if addonVersion == "" {
		addonVersion = types.UnknownVersion
	}

	log.WithField("addon_version", addonVersion).Info("Add-on version: " + addonVersion)
	log.WithFields(logrus.Fields{
		"container":    info.Config.ContainerIdentifier,
		"dry_run":      info.Config.DryRun,
		"options_file": info.OptionsFile,
	}).Info("Target container: " + info.Config.ContainerIdentifier)
	log.WithField("backend", info.Backend).Debug("Runtime backend selected")
	log.WithField("updater", strings.Join(info.Updater, " ")).Debug("Updater command configured")

	if info.Config.DryRun {
		log.Warn("DRY RUN MODE - the updater will not perform actual updates")
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		log.Warn("Trace level enabled: log will include raw runtime output")
	}
}

// Header logs a title framed by rules.
func Header(log *logrus.Entry, title string) {
	rule := strings.Repeat("=", ruleWidth)

	log.Info(rule)
	log.Info(title)
	log.Info(rule)
}

// Section logs the header that opens a pipeline stage.
func Section(log *logrus.Entry, stage types.Stage) {
	log.WithField("stage", string(stage)).Info("--- Safety Check: " + StageTitle(stage) + " ---")
}

// StageTitle renders a stage name for display ("docker socket" becomes "Docker Socket").
func StageTitle(stage types.Stage) string {
	return titleCaser.String(string(stage))
}
