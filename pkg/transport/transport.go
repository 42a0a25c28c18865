package transport

import (
	"fmt"
	"time"

	"dass/pkg/runtime/constant"
	"go.bug.st/serial"
	"k8s.io/klog/v2"
)

// Settings describes the physical endpoint a transport should open.
type Settings struct {
	Endpoint string
	BaudRate int
	DataBits int
	Parity   constant.Parity
	StopBits constant.StopBits
	Timeout  time.Duration
}

// Transport owns one physical connection and its lifecycle. Disconnect
// is idempotent and safe to call when not connected.
type Transport interface {
	Connect(settings Settings) error
	Disconnect()
	Connected() bool
	Endpoint() string
}

// RegisterReader is implemented by transports that speak a register
// protocol. Reads are synchronous, may block up to the configured
// timeout and report failures as errors instead of panicking, so the
// acquisition layer can collapse them to an absent value.
type RegisterReader interface {
	ReadRegisters(address uint16, quantity uint16, slaveID uint8) ([]uint16, error)
	ReadCoils(address uint16, quantity uint16, slaveID uint8) ([]bool, error)
}

// ConnectionError reports the endpoint that could not be opened and the
// underlying cause.
type ConnectionError struct {
	Endpoint string
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to open endpoint %s: %v", e.Endpoint, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ListAvailablePorts enumerates candidate serial endpoints. It never
// blocks on hardware; enumeration failures yield an empty list.
func ListAvailablePorts() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		klog.V(2).InfoS("Failed to list serial ports", "err", err)
		return []string{}
	}
	return ports
}
