package profile

import (
	"dass/pkg/channel"
	"dass/pkg/generic"
	"dass/pkg/runtime"
)

// Profile is a named, persisted acquisition setup: the link parameters,
// the channel table and the scan plan, restorable in one step instead
// of being re-typed between bench sessions.
type Profile struct {
	runtime.ObjectMeta
	TransportType string             `json:"transportType"`
	Endpoint      string             `json:"endpoint"`
	BaudRate      int                `json:"baudRate"`
	Channels      []channel.Settings `json:"channels,omitempty"`
	Bindings      []runtime.Binding  `json:"bindings,omitempty"`
}

func (p *Profile) GetKind() string {
	return Kind
}

var TypeObjectMap = map[string]generic.Object{
	Kind: &Profile{},
}
