package modbusrtu

import (
	"bytes"
	"time"

	"testing"

	"go.bug.st/serial"
	"go.uber.org/atomic"
)

// fakePort embeds the serial.Port interface so only the methods the
// client exercises need stubbing.
type fakePort struct {
	serial.Port
	request  []byte
	response []byte
	offset   int
	writeErr error
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.request = append([]byte(nil), b...)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.offset >= len(p.response) {
		return 0, nil
	}
	n := copy(b, p.response[p.offset:])
	p.offset += n
	return n, nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	return nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newFakeClient(port *fakePort) *Client {
	return &Client{
		client:    &SerialClient{Timeout: 10 * time.Millisecond, Port: port},
		endpoint:  "/dev/ttyUSB0",
		connected: atomic.NewBool(true),
	}
}

func TestReadRegisters(t *testing.T) {
	port := &fakePort{response: []byte{0x01, 0x03, 0x04, 0x41, 0xA0, 0x00, 0x00, 0xEE, 0x2D}}
	client := newFakeClient(port)

	words, err := client.ReadRegisters(10, 2, 1)
	if err != nil {
		t.Fatalf("ReadRegisters returned %v", err)
	}
	if len(words) != 2 || words[0] != 0x41A0 || words[1] != 0x0000 {
		t.Errorf("actual %04X, expect [41A0 0000]", words)
	}
	expectRequest := []byte{0x01, 0x03, 0x00, 0x0A, 0x00, 0x02, 0xE4, 0x09}
	if !bytes.Equal(port.request, expectRequest) {
		t.Errorf("request % X, expect % X", port.request, expectRequest)
	}
}

func TestReadRegistersTimeout(t *testing.T) {
	// exception responses are shorter than the expected frame and are
	// cut off by the read timeout
	port := &fakePort{response: []byte{0x01, 0x83, 0x02, 0xC0, 0xF1}}
	client := newFakeClient(port)

	if _, err := client.ReadRegisters(10, 2, 1); err != ErrDataLengthNotEnough {
		t.Errorf("actual %v, expect %v", err, ErrDataLengthNotEnough)
	}
}

func TestReadRegistersClosed(t *testing.T) {
	client := New()
	if _, err := client.ReadRegisters(0, 1, 1); err != ErrSerialPortClosed {
		t.Errorf("actual %v, expect %v", err, ErrSerialPortClosed)
	}
}

func TestReadRegistersQuantity(t *testing.T) {
	client := newFakeClient(&fakePort{})
	if _, err := client.ReadRegisters(0, 0, 1); err != ErrQuantityOutOfRange {
		t.Errorf("actual %v, expect %v", err, ErrQuantityOutOfRange)
	}
	if _, err := client.ReadRegisters(0, maxReadQuantity+1, 1); err != ErrQuantityOutOfRange {
		t.Errorf("actual %v, expect %v", err, ErrQuantityOutOfRange)
	}
}

func TestReadCoils(t *testing.T) {
	port := &fakePort{response: []byte{0x02, 0x01, 0x01, 0xB4, 0x51, 0xBB}}
	client := newFakeClient(port)

	coils, err := client.ReadCoils(0, 8, 2)
	if err != nil {
		t.Fatalf("ReadCoils returned %v", err)
	}
	expect := []bool{false, false, true, false, true, true, false, true}
	if len(coils) != len(expect) {
		t.Fatalf("len(coils) %v, expect %v", len(coils), len(expect))
	}
	for i := range expect {
		if coils[i] != expect[i] {
			t.Errorf("coil %d actual %v, expect %v", i, coils[i], expect[i])
		}
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	port := &fakePort{}
	client := newFakeClient(port)

	client.Disconnect()
	if !port.closed {
		t.Fatal("port not closed")
	}
	if client.Connected() {
		t.Fatal("client still connected")
	}
	client.Disconnect()
}
