package modbusrtu

import (
	"sync"

	"dass/pkg/transport"
	"dass/pkg/utils/binutil"
	"go.bug.st/serial"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"
)

// Client speaks Modbus RTU over one serial connection. The mutex
// serializes wire access: a frame must be fully answered before the
// next request is written.
type Client struct {
	mux       sync.Mutex
	client    *SerialClient
	endpoint  string
	connected *atomic.Bool
}

var (
	_ transport.Transport      = (*Client)(nil)
	_ transport.RegisterReader = (*Client)(nil)
)

func New() *Client {
	return &Client{connected: atomic.NewBool(false)}
}

func (c *Client) Connect(settings transport.Settings) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.connected.Load() {
		return &transport.ConnectionError{Endpoint: settings.Endpoint, Cause: ErrBadConn}
	}
	mode := &serial.Mode{
		BaudRate: settings.BaudRate,
		DataBits: settings.DataBits,
		Parity:   transport.ParityToParity[settings.Parity],
		StopBits: transport.StopBitsToStopBits[settings.StopBits],
	}
	port, err := serial.Open(settings.Endpoint, mode)
	if err != nil {
		klog.V(2).InfoS("Failed to open serial port", "endpoint", settings.Endpoint, "err", err)
		return &transport.ConnectionError{Endpoint: settings.Endpoint, Cause: err}
	}
	c.client = &SerialClient{Timeout: settings.Timeout, Port: port}
	c.endpoint = settings.Endpoint
	c.connected.Store(true)
	return nil
}

func (c *Client) Disconnect() {
	c.mux.Lock()
	defer c.mux.Unlock()
	if !c.connected.CAS(true, false) {
		return
	}
	if err := c.client.Port.Close(); err != nil {
		klog.V(2).InfoS("Failed to close serial port", "endpoint", c.endpoint, "err", err)
	}
	c.client = nil
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

func (c *Client) Endpoint() string {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.endpoint
}

// ReadRegisters reads quantity holding registers starting at address
// and returns them as big-endian data words.
func (c *Client) ReadRegisters(address uint16, quantity uint16, slaveID uint8) ([]uint16, error) {
	if quantity == 0 || quantity > maxReadQuantity {
		return nil, ErrQuantityOutOfRange
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.client == nil {
		return nil, ErrSerialPortClosed
	}

	request := buildReadFrame(slaveID, funcCodeReadHoldingRegisters, address, quantity)
	response := make([]byte, responseLength(int(quantity)*2))
	if _, err := c.client.AskAtLeast(request, response); err != nil {
		return nil, err
	}
	data, err := validateResponse(request, response)
	if err != nil {
		return nil, err
	}

	words := make([]uint16, quantity)
	for i := range words {
		words[i] = binutil.ParseUint16BigEndian(data[i*2:])
	}
	return words, nil
}

// ReadCoils reads quantity coil states starting at address.
func (c *Client) ReadCoils(address uint16, quantity uint16, slaveID uint8) ([]bool, error) {
	if quantity == 0 || quantity > maxReadQuantity {
		return nil, ErrQuantityOutOfRange
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.client == nil {
		return nil, ErrSerialPortClosed
	}

	byteCount := (int(quantity) + 7) / 8
	request := buildReadFrame(slaveID, funcCodeReadCoils, address, quantity)
	response := make([]byte, responseLength(byteCount))
	if _, err := c.client.AskAtLeast(request, response); err != nil {
		return nil, err
	}
	data, err := validateResponse(request, response)
	if err != nil {
		return nil, err
	}

	expanded := binutil.ExpandBool(data, byteCount)
	return binutil.ByteToBool(expanded)[:quantity], nil
}
