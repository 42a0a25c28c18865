package transport

import (
	"sync"

	"dass/pkg/runtime/constant"
	"go.bug.st/serial"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"
)

// SerialTransport opens a raw byte-oriented serial connection. It
// carries no framing of its own; sessions on this transport exercise
// the pipeline through the stand-in generator.
type SerialTransport struct {
	mux       sync.Mutex
	port      serial.Port
	endpoint  string
	connected *atomic.Bool
}

var _ Transport = (*SerialTransport)(nil)

func NewSerialTransport() *SerialTransport {
	return &SerialTransport{connected: atomic.NewBool(false)}
}

func (t *SerialTransport) Connect(settings Settings) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.connected.Load() {
		return &ConnectionError{Endpoint: settings.Endpoint, Cause: constant.ErrConnected}
	}
	mode := &serial.Mode{
		BaudRate: settings.BaudRate,
		DataBits: settings.DataBits,
		Parity:   ParityToParity[settings.Parity],
		StopBits: StopBitsToStopBits[settings.StopBits],
	}
	port, err := serial.Open(settings.Endpoint, mode)
	if err != nil {
		klog.V(2).InfoS("Failed to open serial port", "endpoint", settings.Endpoint, "err", err)
		return &ConnectionError{Endpoint: settings.Endpoint, Cause: err}
	}
	t.port = port
	t.endpoint = settings.Endpoint
	t.connected.Store(true)
	return nil
}

func (t *SerialTransport) Disconnect() {
	t.mux.Lock()
	defer t.mux.Unlock()
	if !t.connected.CAS(true, false) {
		return
	}
	if err := t.port.Close(); err != nil {
		klog.V(2).InfoS("Failed to close serial port", "endpoint", t.endpoint, "err", err)
	}
	t.port = nil
}

func (t *SerialTransport) Connected() bool {
	return t.connected.Load()
}

func (t *SerialTransport) Endpoint() string {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.endpoint
}
