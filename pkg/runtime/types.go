package runtime

import (
	"context"
	"net/url"

	"dass/pkg/runtime/constant"
)

type LabeledCloser struct {
	Label  string
	Closer func(context.Context) error
}

type ResponseModel struct {
	Profiles interface{} `json:"profiles,omitempty"`
	Ports    interface{} `json:"ports,omitempty"`
	Channels interface{} `json:"channels,omitempty"`
	Events   interface{} `json:"events,omitempty"`
	Series   interface{} `json:"series,omitempty"`
	Values   interface{} `json:"values,omitempty"`
	System   interface{} `json:"system,omitempty"`
}

// Binding declares one scan plan read target: which slave, which
// starting register, how to decode it and the logical name the decoded
// value travels under.
type Binding struct {
	Name     string            `json:"name"`
	SlaveID  uint8             `json:"slaveId"`
	Address  uint16            `json:"address"`
	DataType constant.DataType `json:"dataType"`
}

type PublishData struct {
	Payload Payload `json:"payload"`
}

type Payload struct {
	Data []TimeSeriesData `json:"data"`
}

type TimeSeriesData struct {
	Timestamp Time        `json:"timestamp"`
	Values    []PointData `json:"values"`
}

type PointData struct {
	DataPointId string      `json:"dataPointId"`
	Value       interface{} `json:"value"`
}

type CreateOptions struct {
	Query url.Values
}

type GetOptions struct {
	Version string
	Query   url.Values
}

type ListOptions struct {
	Filter map[string]interface{}
	Query  url.Values
}

type UpdateOptions struct {
	Version string
	Query   url.Values
}

type DeleteOptions struct {
	Version string
	Query   url.Values
}
