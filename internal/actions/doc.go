// Package actions provides the ESPHome gate's ordered validation pipeline.
// It checks, in a fixed order and fail-fast, that the Docker environment is
// usable before control is handed to the updater.
//
// Key components:
//   - Pipeline: Runs the stages and returns a types.Result.
//   - LocateSocket: Picks the first candidate path that is a socket node.
//   - ParseVersion: Extracts a version from "esphome version" output.
//
// Usage example:
//
//	pipeline := actions.NewPipeline(actions.Options{})
//	result := pipeline.Run(ctx, config)
//	if !result.Proceed() {
//	    logging.WriteDiagnostic(logrus.NewEntry(logrus.StandardLogger()), result.Abort)
//	}
//
// The first four stages may abort; version detection never does. Every stage
// runs at most once per call to Run, and no stage runs after an abort.
package actions
