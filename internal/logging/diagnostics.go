package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// Directories the updater is allowed to touch, reported in the boundaries summary.
const (
	ConfigDirectory = "/config/esphome"
	BuildDirectory  = "/config/esphome/builds/"
)

// fatalPrefix heads the summary line of a rendered diagnostic.
const fatalPrefix = "FATAL: "

// WriteDiagnostic logs an abort's diagnostic line by line at fatal level.
//
// Blank separator lines are skipped and the "FATAL: " headline prefix is
// dropped, since the level already carries it. It does not exit; callers terminate the process afterwards through the
// logger's Exit so the exit code stays under their control.
//
// Parameters:
//   - log: Entry to write to.
//   - abort: Abort to describe. A nil abort writes nothing.
func WriteDiagnostic(log *logrus.Entry, abort *types.Abort) {
	if abort == nil {
		return
	}

	clog := log.WithFields(logrus.Fields{
		"stage": string(abort.Stage),
		"kind":  string(abort.Kind),
	})

	for _, line := range abort.Diagnostic.Lines() {
		if strings.TrimSpace(line) == "" {
			continue
		}

		clog.Log(logrus.FatalLevel, strings.TrimPrefix(line, fatalPrefix))
	}
}

// WriteBoundaries logs the summary printed once every check has passed.
func WriteBoundaries(log *logrus.Entry, result types.Result) {
	log.Info("")
	log.Info("--- Safety Checks Complete ---")
	log.Info("All safety checks passed")
	log.Info("Operating boundaries:")
	log.Info("  - Docker container: " + result.Config.ContainerIdentifier)
	log.Info("  - Config directory: " + ConfigDirectory)
	log.Info("  - Build output: " + BuildDirectory)
	log.Info("  - No access to: host system, other containers, external networks")
}
