package v1

import (
	"dass/pkg/runtime/constant"
)

// ConnectRequest selects and parameterizes the serial link. Framing
// options may be omitted; the transport falls back to 8N1.
type ConnectRequest struct {
	TransportType string `json:"transportType" binding:"required,oneof=serial modbusRtu"`
	Endpoint      string `json:"endpoint" binding:"required,min=1,max=128"`
	BaudRate      int    `json:"baudRate" binding:"required,gte=1200,lte=921600"`
	DataBits      int    `json:"dataBits,omitempty" binding:"omitempty,oneof=5 6 7 8"`
	Parity        string `json:"parity,omitempty" binding:"omitempty,oneof=noParity oddParity evenParity markParity spaceParity"`
	StopBits      string `json:"stopBits,omitempty" binding:"omitempty,oneof=1 1.5 2"`
	TimeoutMs     uint   `json:"timeoutMs,omitempty" binding:"omitempty,lte=10000"`
}

type ConnectionStatus struct {
	Connected     bool   `json:"connected"`
	TransportType string `json:"transportType,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"`
}

// Binding names one register read of the scan plan. Address is a
// pointer so register zero survives required-field validation.
type Binding struct {
	Name     string            `json:"name" binding:"required,min=1,max=64,excludesall=\u002F\u0022"`
	SlaveID  uint8             `json:"slaveId" binding:"required,gte=1,lte=4"`
	Address  *uint             `json:"address" binding:"required,number,gte=0,lte=65535"`
	DataType constant.DataType `json:"dataType" binding:"required"`
}

type ScanPlan struct {
	Bindings []*Binding `json:"bindings" binding:"dive"`
}

// ChannelSettings carries a partial channel update; nil fields keep
// their current value.
type ChannelSettings struct {
	Name       *string `json:"name,omitempty" binding:"omitempty,min=1,max=64,excludesall=\u002F\u0022"`
	Zero       *string `json:"zero,omitempty" binding:"omitempty,max=32"`
	Multiplier *string `json:"multiplier,omitempty" binding:"omitempty,max=32"`
	Gain       *string `json:"gain,omitempty" binding:"omitempty,max=32"`
}

type StartRequest struct {
	LogFileStem string `json:"logFileStem,omitempty" binding:"omitempty,max=64"`
}

// Profile bundles everything needed to reproduce an acquisition setup.
// Channel settings apply by position; omitted coefficients default to
// the identity transform.
type Profile struct {
	Name          string            `json:"name" binding:"required,min=1,max=64,excludesall=\u002F\u0022"`
	TransportType string            `json:"transportType" binding:"required,oneof=serial modbusRtu"`
	Endpoint      string            `json:"endpoint" binding:"required,min=1,max=128"`
	BaudRate      int               `json:"baudRate" binding:"required,gte=1200,lte=921600"`
	Channels      []*ProfileChannel `json:"channels,omitempty" binding:"omitempty,dive"`
	Bindings      []*Binding        `json:"bindings,omitempty" binding:"omitempty,dive"`
}

type ProfileChannel struct {
	Name       string `json:"name" binding:"required,min=1,max=64,excludesall=\u002F\u0022"`
	Zero       string `json:"zero,omitempty" binding:"omitempty,max=32"`
	Multiplier string `json:"multiplier,omitempty" binding:"omitempty,max=32"`
	Gain       string `json:"gain,omitempty" binding:"omitempty,max=32"`
}

type SessionStatus struct {
	State        string `json:"state"`
	SessionID    string `json:"sessionId,omitempty"`
	LogFile      string `json:"logFile,omitempty"`
	StartedAt    string `json:"startedAt,omitempty"`
	ChannelCount int    `json:"channelCount"`
	Ticks        uint64 `json:"ticks"`
	FailedTicks  uint64 `json:"failedTicks"`
}
