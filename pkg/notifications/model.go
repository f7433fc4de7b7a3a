package notifications

import (
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// StaticData is the part of the notification template data model set upon initialization.
type StaticData struct {
	Title string
	Host  string
}

// Data is the notification template data model.
type Data struct {
	StaticData
	// Message is the plain-text abort report rendered by AbortMessage.
	Message   string
	Container string
	Endpoint  types.RuntimeEndpoint
	Abort     *types.Abort
	Stages    []types.StageReport
}

// newData builds the template data for a run.
func newData(static StaticData, result types.Result) Data {
	return Data{
		StaticData: static,
		Message:    AbortMessage(result),
		Container:  result.Config.ContainerIdentifier,
		Endpoint:   result.Endpoint,
		Abort:      result.Abort,
		Stages:     result.Stages,
	}
}
