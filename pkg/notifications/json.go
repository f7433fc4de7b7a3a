package notifications

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var _ json.Marshaler = &Data{}

// Errors for JSON marshaling.
var (
	// errMarshalFailed indicates a failure to marshal notification data to JSON.
	errMarshalFailed = errors.New("failed to marshal notification data")
)

// jsonMap is a type alias for a JSON-compatible map.
type jsonMap = map[string]any

// MarshalJSON implements json.Marshaler for Data.
//
// Returns:
//   - []byte: JSON-encoded data.
//   - error: Non-nil if marshaling fails, nil on success.
func (d Data) MarshalJSON() ([]byte, error) {
	clog := logrus.WithFields(logrus.Fields{
		"title":  d.Title,
		"host":   d.Host,
		"stages": len(d.Stages),
	})
	clog.Debug("Marshaling notification data to JSON")

	var abort jsonMap
	if d.Abort != nil {
		abort = jsonMap{
			"stage":       d.Abort.Stage,
			"kind":        d.Abort.Kind,
			"exitCode":    d.Abort.ExitCode,
			"summary":     d.Abort.Diagnostic.Summary,
			"causes":      d.Abort.Diagnostic.Causes,
			"consequence": d.Abort.Diagnostic.Consequence,
			"fixes":       d.Abort.Diagnostic.Fixes,
			"hints":       d.Abort.Diagnostic.Hints,
		}

		if d.Abort.Diagnostic.Detail != "" {
			abort["detail"] = d.Abort.Diagnostic.Detail
		}
	}

	data := jsonMap{
		"title":     d.Title,
		"host":      d.Host,
		"container": d.Container,
		"endpoint":  d.Endpoint,
		"abort":     abort,
		"stages":    marshalStages(d.Stages),
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		clog.WithError(err).Error("Failed to marshal notification data to JSON")

		return nil, fmt.Errorf("%w: %w", errMarshalFailed, err)
	}

	clog.WithField("size", len(bytes)).Debug("Successfully marshaled notification data to JSON")

	return bytes, nil
}

// marshalStages converts stage reports to JSON-compatible maps.
func marshalStages(stages []types.StageReport) []jsonMap {
	jsonStages := make([]jsonMap, len(stages))
	for i, stage := range stages {
		jsonStages[i] = jsonMap{
			"stage":    stage.Stage,
			"state":    stage.State,
			"duration": stage.Duration.Seconds(),
		}
	}

	return jsonStages
}
